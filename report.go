package zoo

import "context"

// Reporter answers read-only aggregation queries. Reports never mutate
// state and need no retry protocol.
type Reporter struct {
	store Store
}

func NewReporter(store Store) *Reporter {
	return &Reporter{store: store}
}

// FavouriteRooms lists each room referenced by at least one animal's
// favourite set, with the number of animals referencing it.
func (r *Reporter) FavouriteRooms(ctx context.Context) ([]FavouriteRoomCount, error) {
	return r.store.FavouriteRoomCounts(ctx)
}
