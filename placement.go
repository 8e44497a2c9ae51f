package zoo

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultMaxRetries bounds optimistic-conflict retries before the
	// engine escalates to CONCURRENT_ERROR. The budget trades liveness
	// under heavy contention; correctness comes from the conditioned
	// writes alone.
	DefaultMaxRetries = 4

	// DefaultBackoffUnit is multiplied by the attempt number to space out
	// retries under contention.
	DefaultBackoffUnit = 100 * time.Millisecond
)

// Placer assigns animals to rooms and removes them again, keeping the
// capacity and category invariants intact under concurrent access.
type Placer interface {
	// Place puts the animal into the room. Placing an animal into the room
	// it already occupies is a no-op success. An animal occupying a
	// different room is rejected with ErrAnimalStillPlaced; it must be
	// removed first so the old room's volume accounting is released.
	Place(ctx context.Context, animalID, roomID string) (*Animal, error)

	// Remove takes the animal out of its current room, failing with code
	// ANIMAL_NOT_PLACED when it has none.
	Remove(ctx context.Context, animalID string) (*Animal, error)
}

// PlacementEngine implements Placer over a versioned Store using
// optimistic concurrency: read fresh snapshots, validate, mutate, write
// each aggregate conditioned on the version read. A version conflict
// discards all local state and restarts from the top, with a linear
// backoff between attempts.
//
// Room and Animal are two separately versioned aggregates with no
// cross-aggregate transaction; the room write commits first, then the
// animal write. A crash between the two leaves a window where the room
// holds the animal id while the animal record still looks unplaced. The
// mutators on Room are no-ops for already-applied membership so a retry
// that lands in the window rolls the operation forward instead of
// double-accounting volume. When the animal write fails terminally after
// the room write committed, the engine releases the room reservation
// again before surfacing the error, so an exhausted placement does not
// strand volume in the room.
type PlacementEngine struct {
	store       Store
	maxRetries  int
	backoffUnit time.Duration
}

func NewPlacementEngine(store Store) *PlacementEngine {
	return &PlacementEngine{
		store:       store,
		maxRetries:  DefaultMaxRetries,
		backoffUnit: DefaultBackoffUnit,
	}
}

// WithRetryPolicy overrides the retry budget and backoff unit.
func (e *PlacementEngine) WithRetryPolicy(maxRetries int, backoffUnit time.Duration) *PlacementEngine {
	e.maxRetries = maxRetries
	e.backoffUnit = backoffUnit
	return e
}

func (e *PlacementEngine) Place(ctx context.Context, animalID, roomID string) (*Animal, error) {
	for attempt := 1; ; attempt++ {
		animal, err := e.store.GetAnimal(ctx, animalID)
		if err != nil {
			return nil, err
		}
		if animal.PlacedIn(roomID) {
			return animal, nil
		}
		if animal.RoomID != nil {
			return nil, fmt.Errorf("cannot place animal %q into room %q: %w", animalID, roomID, ErrAnimalStillPlaced)
		}
		room, err := e.store.GetRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}

		// A room that already lists the animal means a previous attempt
		// committed the room write and lost the animal write; only the
		// animal side is left to roll forward.
		if !room.Has(animal.ID) {
			if err := CheckPlacement(room, animal); err != nil {
				return nil, err
			}
			room.Admit(animal)
			if _, err := e.store.PutRoom(ctx, room); err != nil {
				if retryErr := e.retry(ctx, err, attempt, animalID, roomID); retryErr != nil {
					return nil, retryErr
				}
				continue
			}
		}

		animal.SetRoom(room.ID)
		updated, err := e.store.PutAnimal(ctx, animal)
		if err != nil {
			if retryErr := e.retry(ctx, err, attempt, animalID, roomID); retryErr != nil {
				e.releaseRoom(ctx, animal, roomID)
				return nil, retryErr
			}
			continue
		}
		slog.Debug(fmt.Sprintf("animal %q placed in room %q (attempt %d)", animalID, roomID, attempt))
		return updated, nil
	}
}

// releaseRoom undoes a committed room admission whose animal write failed
// terminally. Best effort: a conflict means another writer moved the room
// on, so re-read and try again within the retry budget; anything else
// gives up and leaves the window for the next Place/Remove to roll
// forward. Runs detached from the caller's cancellation so a deadline
// that killed the placement does not also kill the cleanup.
func (e *PlacementEngine) releaseRoom(ctx context.Context, animal *Animal, roomID string) {
	ctx = context.WithoutCancel(ctx)
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		room, err := e.store.GetRoom(ctx, roomID)
		if err != nil {
			return
		}
		if !room.Has(animal.ID) {
			return
		}
		room.Evict(animal)
		if _, err := e.store.PutRoom(ctx, room); err != nil {
			if ErrorHasCode(err, CodeConcurrency) {
				continue
			}
			return
		}
		slog.Warn(fmt.Sprintf("released reservation in room %q for animal %q after failed placement", roomID, animal.ID))
		return
	}
}

func (e *PlacementEngine) Remove(ctx context.Context, animalID string) (*Animal, error) {
	for attempt := 1; ; attempt++ {
		animal, err := e.store.GetAnimal(ctx, animalID)
		if err != nil {
			return nil, err
		}
		if animal.RoomID == nil {
			return nil, NewError(CodeAnimalNotPlaced, fmt.Errorf("animal %q is not placed in any room", animalID))
		}
		roomID := *animal.RoomID
		room, err := e.store.GetRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}

		if room.Has(animal.ID) {
			room.Evict(animal)
			if _, err := e.store.PutRoom(ctx, room); err != nil {
				if retryErr := e.retry(ctx, err, attempt, animalID, roomID); retryErr != nil {
					return nil, retryErr
				}
				continue
			}
		}

		animal.ClearRoom()
		updated, err := e.store.PutAnimal(ctx, animal)
		if err != nil {
			if retryErr := e.retry(ctx, err, attempt, animalID, roomID); retryErr != nil {
				return nil, retryErr
			}
			continue
		}
		slog.Debug(fmt.Sprintf("animal %q removed from room %q (attempt %d)", animalID, roomID, attempt))
		return updated, nil
	}
}

// retry decides what to do with a failed conditioned write. Non-conflict
// errors and an exhausted budget are terminal; otherwise it sleeps the
// linear backoff and signals the caller to restart from a fresh read.
func (e *PlacementEngine) retry(ctx context.Context, err error, attempt int, animalID, roomID string) error {
	if !ErrorHasCode(err, CodeConcurrency) {
		return err
	}
	slog.Warn(fmt.Sprintf("optimistic conflict on animal %q / room %q, retry %d/%d", animalID, roomID, attempt, e.maxRetries))
	if attempt >= e.maxRetries {
		return NewError(CodeConcurrency, fmt.Errorf("too many concurrent modifications after %d attempts: %w", attempt, err))
	}
	timer := time.NewTimer(time.Duration(attempt) * e.backoffUnit)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return NewError(CodeConcurrency, fmt.Errorf("placement canceled during backoff: %w", ctx.Err()))
	case <-timer.C:
		return nil
	}
}
