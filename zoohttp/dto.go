package zoohttp

import (
	"fmt"
	"time"

	zoo "github.com/rezairanshahi021/zoo-challenge"
)

const locatedLayout = "2006-01-02"

type createAnimalRequest struct {
	Title    string  `json:"title" binding:"required,min=2,max=50"`
	Volume   float64 `json:"volume" binding:"required,gte=1"`
	Category string  `json:"category" binding:"required,oneof=DOMESTIC WILD BIRD"`
	Located  string  `json:"located" binding:"required,datetime=2006-01-02"`
}

type updateAnimalRequest struct {
	Title   string `json:"title" binding:"required,min=2,max=50"`
	Located string `json:"located" binding:"required,datetime=2006-01-02"`
}

type createRoomRequest struct {
	Title    string  `json:"title" binding:"required,min=2,max=50"`
	Capacity float64 `json:"capacity" binding:"required,gte=1"`
}

type updateRoomRequest struct {
	Title string `json:"title" binding:"required,min=2,max=50"`
}

type placeAnimalRequest struct {
	RoomID string `json:"room_id" binding:"required"`
}

type animalResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Volume           float64  `json:"volume"`
	Category         string   `json:"category"`
	Located          string   `json:"located"`
	RoomID           *string  `json:"room_id,omitempty"`
	FavouriteRoomIDs []string `json:"favourite_room_ids,omitempty"`
	Version          int64    `json:"version"`
}

type roomResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Capacity        float64  `json:"capacity"`
	UsedVolume      float64  `json:"used_volume"`
	AnimalIDs       []string `json:"animal_ids,omitempty"`
	AllowedCategory *string  `json:"allowed_category,omitempty"`
	Version         int64    `json:"version"`
}

type animalPageResponse struct {
	Animals    []animalResponse `json:"animals"`
	Number     int              `json:"number"`
	Size       int              `json:"size"`
	TotalCount int              `json:"total_count"`
	TotalPages int              `json:"total_pages"`
}

type favouriteRoomResponse struct {
	RoomID string `json:"room_id"`
	Title  string `json:"title"`
	Count  int64  `json:"count"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toAnimalResponse(a *zoo.Animal) animalResponse {
	return animalResponse{
		ID:               a.ID,
		Title:            a.Title,
		Volume:           a.Volume,
		Category:         string(a.Category),
		Located:          a.Located.Format(locatedLayout),
		RoomID:           a.RoomID,
		FavouriteRoomIDs: a.FavouriteRoomIDs,
		Version:          a.Version,
	}
}

func toRoomResponse(r *zoo.Room) roomResponse {
	resp := roomResponse{
		ID:         r.ID,
		Title:      r.Title,
		Capacity:   r.Capacity,
		UsedVolume: r.UsedVolume,
		AnimalIDs:  r.AnimalIDs,
		Version:    r.Version,
	}
	if r.AllowedCategory != nil {
		category := string(*r.AllowedCategory)
		resp.AllowedCategory = &category
	}
	return resp
}

func parseLocated(s string) (time.Time, error) {
	t, err := time.Parse(locatedLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid located date %q: %w", s, err)
	}
	return t, nil
}
