package zooredis

import (
	"encoding/json"
	"fmt"
	"time"

	zoo "github.com/rezairanshahi021/zoo-challenge"
)

const locatedDateFormat = "2006-01-02"

type animalDoc struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Volume           float64   `json:"volume"`
	Category         string    `json:"category"`
	Located          string    `json:"located,omitempty"`
	RoomID           *string   `json:"room_id,omitempty"`
	FavouriteRoomIDs []string  `json:"favourite_room_ids,omitempty"`
	Created          time.Time `json:"created"`
	Updated          time.Time `json:"updated"`
}

type roomDoc struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Capacity        float64   `json:"capacity"`
	UsedVolume      float64   `json:"used_volume"`
	AnimalIDs       []string  `json:"animal_ids,omitempty"`
	AllowedCategory *string   `json:"allowed_category,omitempty"`
	Created         time.Time `json:"created"`
	Updated         time.Time `json:"updated"`
}

func encodeAnimal(a *zoo.Animal) (string, error) {
	doc := animalDoc{
		ID:               a.ID,
		Title:            a.Title,
		Volume:           a.Volume,
		Category:         string(a.Category),
		RoomID:           a.RoomID,
		FavouriteRoomIDs: a.FavouriteRoomIDs,
		Created:          a.Created,
		Updated:          a.Updated,
	}
	if !a.Located.IsZero() {
		doc.Located = a.Located.Format(locatedDateFormat)
	}
	bytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode animal document: %w", err)
	}
	return string(bytes), nil
}

func decodeAnimal(data string, version int64) (*zoo.Animal, error) {
	var doc animalDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode animal document: %w", err)
	}
	a := &zoo.Animal{
		ID:               doc.ID,
		Title:            doc.Title,
		Volume:           doc.Volume,
		Category:         zoo.Category(doc.Category),
		RoomID:           doc.RoomID,
		FavouriteRoomIDs: doc.FavouriteRoomIDs,
		Version:          version,
		Created:          doc.Created,
		Updated:          doc.Updated,
	}
	if doc.Located != "" {
		located, err := time.Parse(locatedDateFormat, doc.Located)
		if err != nil {
			return nil, fmt.Errorf("failed to parse located date %q: %w", doc.Located, err)
		}
		a.Located = located
	}
	return a, nil
}

func encodeRoom(r *zoo.Room) (string, error) {
	doc := roomDoc{
		ID:         r.ID,
		Title:      r.Title,
		Capacity:   r.Capacity,
		UsedVolume: r.UsedVolume,
		AnimalIDs:  r.AnimalIDs,
		Created:    r.Created,
		Updated:    r.Updated,
	}
	if r.AllowedCategory != nil {
		category := string(*r.AllowedCategory)
		doc.AllowedCategory = &category
	}
	bytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode room document: %w", err)
	}
	return string(bytes), nil
}

func decodeRoom(data string, version int64) (*zoo.Room, error) {
	var doc roomDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode room document: %w", err)
	}
	r := &zoo.Room{
		ID:         doc.ID,
		Title:      doc.Title,
		Capacity:   doc.Capacity,
		UsedVolume: doc.UsedVolume,
		AnimalIDs:  doc.AnimalIDs,
		Version:    version,
		Created:    doc.Created,
		Updated:    doc.Updated,
	}
	if doc.AllowedCategory != nil {
		category := zoo.Category(*doc.AllowedCategory)
		r.AllowedCategory = &category
	}
	return r, nil
}
