// Package zoohttp exposes the zoo services over a REST/JSON API.
package zoohttp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	zoo "github.com/rezairanshahi021/zoo-challenge"
)

// Services bundles the collaborators the HTTP layer dispatches to.
type Services struct {
	Animals    *zoo.AnimalManager
	Rooms      *zoo.RoomManager
	Placer     zoo.Placer
	Favourites *zoo.FavouriteRegister
	Reporter   *zoo.Reporter
}

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(svc Services) *gin.Engine {
	h := &handler{svc: svc}
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/animals", h.createAnimal)
	api.GET("/animals/:id", h.getAnimal)
	api.PUT("/animals/:id", h.updateAnimal)
	api.DELETE("/animals/:id", h.deleteAnimal)
	api.GET("/animals/by-room/:roomId", h.listAnimalsByRoom)
	api.PATCH("/animals/:id/placement", h.placeAnimal)
	api.DELETE("/animals/:id/placement", h.removeAnimal)
	api.POST("/animals/:id/favourites", h.addFavourite)
	api.DELETE("/animals/:id/favourites/:roomId", h.removeFavourite)
	api.POST("/rooms", h.createRoom)
	api.GET("/rooms/:id", h.getRoom)
	api.PUT("/rooms/:id", h.updateRoom)
	api.DELETE("/rooms/:id", h.deleteRoom)
	api.GET("/reports/favourite-rooms", h.favouriteRooms)
	return router
}

type handler struct {
	svc Services
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, zoo.ErrRoomOccupied) {
		c.JSON(http.StatusConflict, errorResponse{Code: "ROOM_OCCUPIED", Message: err.Error()})
		return
	}
	if errors.Is(err, zoo.ErrAnimalStillPlaced) {
		c.JSON(http.StatusConflict, errorResponse{Code: "ANIMAL_PLACED", Message: err.Error()})
		return
	}
	var zerr *zoo.Error
	if !errors.As(err, &zerr) {
		c.JSON(http.StatusInternalServerError, errorResponse{Code: "INTERNAL_ERROR", Message: err.Error()})
		return
	}
	status := http.StatusInternalServerError
	switch zerr.Code {
	case zoo.CodeAnimalNotFound, zoo.CodeRoomNotFound:
		status = http.StatusNotFound
	case zoo.CodeRoomExists, zoo.CodeCategoryMismatch, zoo.CodeRoomFull, zoo.CodeConcurrency:
		status = http.StatusConflict
	case zoo.CodeAnimalNotPlaced:
		status = http.StatusBadRequest
	}
	c.JSON(status, errorResponse{Code: string(zerr.Code), Message: zerr.Error()})
}

func writeBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Message: err.Error()})
}
