package zoo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// RoomManager exposes CRUD over room records, guarding the unique-title
// constraint.
type RoomManager struct {
	store Store
}

func NewRoomManager(store Store) *RoomManager {
	return &RoomManager{store: store}
}

func (m *RoomManager) Create(ctx context.Context, room *Room) (*Room, error) {
	if room.Title == "" {
		return nil, errors.New("missing room title")
	}
	if room.Capacity < 1 {
		return nil, fmt.Errorf("invalid room capacity %g", room.Capacity)
	}
	exists, err := m.store.RoomTitleExists(ctx, room.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewError(CodeRoomExists, fmt.Errorf("room with title %q already exists", room.Title))
	}
	return m.store.CreateRoom(ctx, room)
}

func (m *RoomManager) Get(ctx context.Context, id string) (*Room, error) {
	return m.store.GetRoom(ctx, id)
}

// UpdateTitle renames a room. Capacity and occupancy state are not
// client-writable.
func (m *RoomManager) UpdateTitle(ctx context.Context, id, title string) (*Room, error) {
	room, err := m.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(room.Title, title) {
		exists, err := m.store.RoomTitleExists(ctx, title)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, NewError(CodeRoomExists, fmt.Errorf("room with title %q already exists", title))
		}
	}
	room.Title = title
	return m.store.PutRoom(ctx, room)
}

// Delete removes a room record. Occupied rooms cannot be deleted, or
// their animals would be orphaned with dangling room references.
func (m *RoomManager) Delete(ctx context.Context, id string) error {
	room, err := m.store.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if !room.Empty() {
		return fmt.Errorf("cannot delete room %q: %w", id, ErrRoomOccupied)
	}
	return m.store.DeleteRoom(ctx, id)
}
