package zoohttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	zoo "github.com/rezairanshahi021/zoo-challenge"
)

func (h *handler) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	room, err := h.svc.Rooms.Create(c.Request.Context(), &zoo.Room{
		Title:    req.Title,
		Capacity: req.Capacity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRoomResponse(room))
}

func (h *handler) getRoom(c *gin.Context) {
	room, err := h.svc.Rooms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

func (h *handler) updateRoom(c *gin.Context) {
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	room, err := h.svc.Rooms.UpdateTitle(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

func (h *handler) deleteRoom(c *gin.Context) {
	if err := h.svc.Rooms.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
