package zoo

import "context"

// Store is the versioned document store holding Animal and Room records.
//
// Get returns a snapshot carrying the record's current version. Put
// commits only if the stored version still equals the snapshot's version,
// failing with code CONCURRENT_ERROR otherwise. This conditioned write is
// the only coordination primitive in the system; no caller may hold
// in-process locks across requests.
type Store interface {
	GetAnimal(ctx context.Context, id string) (*Animal, error)
	// CreateAnimal assigns an id, stamps audit times and stores the record
	// at version 1.
	CreateAnimal(ctx context.Context, animal *Animal) (*Animal, error)
	// PutAnimal writes the record conditioned on animal.Version and returns
	// it with the incremented version.
	PutAnimal(ctx context.Context, animal *Animal) (*Animal, error)
	DeleteAnimal(ctx context.Context, id string) error
	// ListAnimalsByRoom pages over the animals currently assigned to a room.
	ListAnimalsByRoom(ctx context.Context, roomID string, page Page) (*AnimalPage, error)

	GetRoom(ctx context.Context, id string) (*Room, error)
	CreateRoom(ctx context.Context, room *Room) (*Room, error)
	PutRoom(ctx context.Context, room *Room) (*Room, error)
	DeleteRoom(ctx context.Context, id string) error
	// RoomTitleExists reports whether any room already uses the title,
	// compared case-insensitively.
	RoomTitleExists(ctx context.Context, title string) (bool, error)

	// FavouriteRoomCounts aggregates how many animals reference each room
	// as a favourite, joined with the room title. Rooms that no longer
	// exist are dropped from the result.
	FavouriteRoomCounts(ctx context.Context) ([]FavouriteRoomCount, error)
}

// Page describes pagination and sorting for list queries.
type Page struct {
	Number int
	Size   int
	Sort   string
	Desc   bool
}

type AnimalPage struct {
	Animals    []*Animal
	Number     int
	Size       int
	TotalCount int
	TotalPages int
}

type FavouriteRoomCount struct {
	RoomID string
	Title  string
	Count  int64
}
