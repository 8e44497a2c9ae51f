package zoo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoomManagerDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	rooms := NewRoomManager(store)

	_, err := rooms.Create(ctx, &Room{Title: "Aviary", Capacity: 30})
	require.NoError(t, err)

	_, err = rooms.Create(ctx, &Room{Title: "aviary", Capacity: 10})
	require.True(t, ErrorHasCode(err, CodeRoomExists))
}

func TestRoomManagerUpdateTitle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	rooms := NewRoomManager(store)

	created, err := rooms.Create(ctx, &Room{Title: "Aviary", Capacity: 30})
	require.NoError(t, err)
	other, err := rooms.Create(ctx, &Room{Title: "Savannah", Capacity: 30})
	require.NoError(t, err)

	// re-casing your own title is not a duplicate
	updated, err := rooms.UpdateTitle(ctx, created.ID, "AVIARY")
	require.NoError(t, err)
	require.Equal(t, "AVIARY", updated.Title)

	_, err = rooms.UpdateTitle(ctx, other.ID, "aviary")
	require.True(t, ErrorHasCode(err, CodeRoomExists))
}

func TestRoomManagerDeleteOccupied(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	rooms := NewRoomManager(store)
	engine := newTestEngine(store)

	room, err := rooms.Create(ctx, &Room{Title: "Aviary", Capacity: 30})
	require.NoError(t, err)
	animal := store.seedAnimal(t, 10, CategoryBird)
	_, err = engine.Place(ctx, animal.ID, room.ID)
	require.NoError(t, err)

	require.ErrorIs(t, rooms.Delete(ctx, room.ID), ErrRoomOccupied)

	_, err = engine.Remove(ctx, animal.ID)
	require.NoError(t, err)
	require.NoError(t, rooms.Delete(ctx, room.ID))
}

func TestAnimalManagerValidation(t *testing.T) {
	ctx := context.Background()
	animals := NewAnimalManager(newFakeStore())

	_, err := animals.Create(ctx, &Animal{Title: "Rex", Volume: 0.5, Category: CategoryDomestic})
	require.Error(t, err)
	_, err = animals.Create(ctx, &Animal{Title: "Rex", Volume: 2, Category: Category("FISH")})
	require.Error(t, err)
	_, err = animals.Create(ctx, &Animal{Title: "Rex", Volume: 2, Category: CategoryDomestic})
	require.NoError(t, err)
}

func TestAnimalManagerUpdate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	animals := NewAnimalManager(store)

	created, err := animals.Create(ctx, &Animal{Title: "Rex", Volume: 2, Category: CategoryDomestic})
	require.NoError(t, err)

	located := time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC)
	updated, err := animals.Update(ctx, created.ID, AnimalUpdate{Title: "Rexy", Located: located})
	require.NoError(t, err)
	require.Equal(t, "Rexy", updated.Title)
	require.Equal(t, located, updated.Located)
	// volume and category stay immutable
	require.Equal(t, 2.0, updated.Volume)
	require.Equal(t, CategoryDomestic, updated.Category)
}

func TestAnimalManagerDeletePlaced(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	animals := NewAnimalManager(store)
	engine := newTestEngine(store)

	animal := store.seedAnimal(t, 10, CategoryWild)
	room := store.seedRoom(t, 30)
	_, err := engine.Place(ctx, animal.ID, room.ID)
	require.NoError(t, err)

	require.ErrorIs(t, animals.Delete(ctx, animal.ID), ErrAnimalStillPlaced)

	_, err = engine.Remove(ctx, animal.ID)
	require.NoError(t, err)
	require.NoError(t, animals.Delete(ctx, animal.ID))
}

func TestFavouriteRegister(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	favourites := NewFavouriteRegister(store)

	animal := store.seedAnimal(t, 10, CategoryWild)
	room := store.seedRoom(t, 30)

	updated, err := favourites.AddFavourite(ctx, animal.ID, room.ID)
	require.NoError(t, err)
	require.Equal(t, []string{room.ID}, updated.FavouriteRoomIDs)

	// adding twice keeps the set unique
	updated, err = favourites.AddFavourite(ctx, animal.ID, room.ID)
	require.NoError(t, err)
	require.Equal(t, []string{room.ID}, updated.FavouriteRoomIDs)

	_, err = favourites.AddFavourite(ctx, animal.ID, "missing")
	require.True(t, ErrorHasCode(err, CodeRoomNotFound))

	updated, err = favourites.RemoveFavourite(ctx, animal.ID, room.ID)
	require.NoError(t, err)
	require.Empty(t, updated.FavouriteRoomIDs)
}

func TestReporterFavouriteRooms(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	favourites := NewFavouriteRegister(store)
	reporter := NewReporter(store)

	room := store.seedRoom(t, 30)
	for range 3 {
		animal := store.seedAnimal(t, 5, CategoryBird)
		_, err := favourites.AddFavourite(ctx, animal.ID, room.ID)
		require.NoError(t, err)
	}

	counts, err := reporter.FavouriteRooms(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	require.Equal(t, room.ID, counts[0].RoomID)
	require.Equal(t, int64(3), counts[0].Count)
}
