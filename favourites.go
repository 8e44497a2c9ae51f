package zoo

import "context"

// FavouriteRegister maintains the favourite-room set of an animal. The set
// carries no shared counter, so a single conditioned write suffices; a
// lost version race surfaces CONCURRENT_ERROR to the caller instead of
// being retried here.
type FavouriteRegister struct {
	store Store
}

func NewFavouriteRegister(store Store) *FavouriteRegister {
	return &FavouriteRegister{store: store}
}

// AddFavourite marks the room as a favourite of the animal. The room must
// exist at the time of the call; it is not locked against later deletion.
func (r *FavouriteRegister) AddFavourite(ctx context.Context, animalID, roomID string) (*Animal, error) {
	animal, err := r.store.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, err
	}
	room, err := r.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	animal.AddFavourite(room.ID)
	return r.store.PutAnimal(ctx, animal)
}

func (r *FavouriteRegister) RemoveFavourite(ctx context.Context, animalID, roomID string) (*Animal, error) {
	animal, err := r.store.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, err
	}
	animal.RemoveFavourite(roomID)
	return r.store.PutAnimal(ctx, animal)
}
