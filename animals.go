package zoo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AnimalUpdate carries the mutable fields of an animal. Volume and
// category are immutable once set.
type AnimalUpdate struct {
	Title   string
	Located time.Time
}

// AnimalManager exposes CRUD over animal records. Placement is not its
// concern; see PlacementEngine.
type AnimalManager struct {
	store Store
}

func NewAnimalManager(store Store) *AnimalManager {
	return &AnimalManager{store: store}
}

func (m *AnimalManager) Create(ctx context.Context, animal *Animal) (*Animal, error) {
	if animal.Title == "" {
		return nil, errors.New("missing animal title")
	}
	if animal.Volume < 1 {
		return nil, fmt.Errorf("invalid animal volume %g", animal.Volume)
	}
	if !animal.Category.Valid() {
		return nil, fmt.Errorf("invalid animal category %q", animal.Category)
	}
	return m.store.CreateAnimal(ctx, animal)
}

func (m *AnimalManager) Get(ctx context.Context, id string) (*Animal, error) {
	return m.store.GetAnimal(ctx, id)
}

func (m *AnimalManager) Update(ctx context.Context, id string, update AnimalUpdate) (*Animal, error) {
	animal, err := m.store.GetAnimal(ctx, id)
	if err != nil {
		return nil, err
	}
	animal.Title = update.Title
	animal.Located = update.Located
	return m.store.PutAnimal(ctx, animal)
}

// Delete removes an animal record. A placed animal must be removed from
// its room first, otherwise the room's volume accounting would go stale.
func (m *AnimalManager) Delete(ctx context.Context, id string) error {
	animal, err := m.store.GetAnimal(ctx, id)
	if err != nil {
		return err
	}
	if animal.RoomID != nil {
		return fmt.Errorf("cannot delete animal %q: %w", id, ErrAnimalStillPlaced)
	}
	return m.store.DeleteAnimal(ctx, id)
}

func (m *AnimalManager) ListByRoom(ctx context.Context, roomID string, page Page) (*AnimalPage, error) {
	if page.Size <= 0 {
		page.Size = 20
	}
	if page.Sort == "" {
		page.Sort = "title"
	}
	return m.store.ListAnimalsByRoom(ctx, roomID, page)
}
