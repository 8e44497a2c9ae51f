package zoohttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) placeAnimal(c *gin.Context) {
	var req placeAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	animal, err := h.svc.Placer.Place(c.Request.Context(), c.Param("id"), req.RoomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnimalResponse(animal))
}

func (h *handler) removeAnimal(c *gin.Context) {
	animal, err := h.svc.Placer.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnimalResponse(animal))
}

func (h *handler) addFavourite(c *gin.Context) {
	var req placeAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	animal, err := h.svc.Favourites.AddFavourite(c.Request.Context(), c.Param("id"), req.RoomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnimalResponse(animal))
}

func (h *handler) removeFavourite(c *gin.Context) {
	animal, err := h.svc.Favourites.RemoveFavourite(c.Request.Context(), c.Param("id"), c.Param("roomId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnimalResponse(animal))
}

func (h *handler) favouriteRooms(c *gin.Context) {
	counts, err := h.svc.Reporter.FavouriteRooms(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]favouriteRoomResponse, 0, len(counts))
	for _, count := range counts {
		resp = append(resp, favouriteRoomResponse{
			RoomID: count.RoomID,
			Title:  count.Title,
			Count:  count.Count,
		})
	}
	c.JSON(http.StatusOK, resp)
}
