package zoo

import (
	"slices"
	"time"
)

// Animal is a resource consumer: it occupies Volume units of space in at
// most one room at a time. FavouriteRoomIDs is independent of placement.
//
// Version is an opaque counter incremented by the store on every
// successful write; writes conditioned on a stale version are rejected.
type Animal struct {
	ID               string
	Title            string
	Volume           float64
	Category         Category
	Located          time.Time
	RoomID           *string
	FavouriteRoomIDs []string
	Version          int64
	Created          time.Time
	Updated          time.Time
}

// PlacedIn reports whether the animal currently occupies the given room.
func (a *Animal) PlacedIn(roomID string) bool {
	return a.RoomID != nil && *a.RoomID == roomID
}

func (a *Animal) SetRoom(roomID string) {
	a.RoomID = &roomID
}

func (a *Animal) ClearRoom() {
	a.RoomID = nil
}

// AddFavourite records a favourite room. Duplicates are ignored so the
// set stays unique.
func (a *Animal) AddFavourite(roomID string) {
	if slices.Contains(a.FavouriteRoomIDs, roomID) {
		return
	}
	a.FavouriteRoomIDs = append(a.FavouriteRoomIDs, roomID)
}

func (a *Animal) RemoveFavourite(roomID string) {
	a.FavouriteRoomIDs = slices.DeleteFunc(a.FavouriteRoomIDs, func(id string) bool {
		return id == roomID
	})
}
