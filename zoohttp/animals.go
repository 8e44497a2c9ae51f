package zoohttp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	zoo "github.com/rezairanshahi021/zoo-challenge"
)

func (h *handler) createAnimal(c *gin.Context) {
	var req createAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	located, err := parseLocated(req.Located)
	if err != nil {
		writeBindingError(c, err)
		return
	}
	animal, err := h.svc.Animals.Create(c.Request.Context(), &zoo.Animal{
		Title:    req.Title,
		Volume:   req.Volume,
		Category: zoo.Category(req.Category),
		Located:  located,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAnimalResponse(animal))
}

func (h *handler) getAnimal(c *gin.Context) {
	animal, err := h.svc.Animals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnimalResponse(animal))
}

func (h *handler) updateAnimal(c *gin.Context) {
	var req updateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	located, err := parseLocated(req.Located)
	if err != nil {
		writeBindingError(c, err)
		return
	}
	animal, err := h.svc.Animals.Update(c.Request.Context(), c.Param("id"), zoo.AnimalUpdate{
		Title:   req.Title,
		Located: located,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnimalResponse(animal))
}

func (h *handler) deleteAnimal(c *gin.Context) {
	if err := h.svc.Animals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listAnimalsByRoom(c *gin.Context) {
	page := zoo.Page{
		Number: intQuery(c, "page", 0),
		Size:   intQuery(c, "size", 20),
		Sort:   c.DefaultQuery("sort", "title"),
		Desc:   c.Query("order") == "desc",
	}
	result, err := h.svc.Animals.ListByRoom(c.Request.Context(), c.Param("roomId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := animalPageResponse{
		Animals:    make([]animalResponse, 0, len(result.Animals)),
		Number:     result.Number,
		Size:       result.Size,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
	}
	for _, animal := range result.Animals {
		resp.Animals = append(resp.Animals, toAnimalResponse(animal))
	}
	c.JSON(http.StatusOK, resp)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
