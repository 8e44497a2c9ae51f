package zoo

import (
	"slices"
	"time"
)

// Room is a resource pool with a fixed capacity. The first animal admitted
// pins AllowedCategory to its category; the pin is cleared when the room
// empties again.
type Room struct {
	ID              string
	Title           string
	Capacity        float64
	UsedVolume      float64
	AnimalIDs       []string
	AllowedCategory *Category
	Version         int64
	Created         time.Time
	Updated         time.Time
}

// Remaining returns the free volume left in the room.
func (r *Room) Remaining() float64 {
	return r.Capacity - r.UsedVolume
}

func (r *Room) Empty() bool {
	return len(r.AnimalIDs) == 0
}

// Has reports whether the animal id is already a member of the room.
func (r *Room) Has(animalID string) bool {
	return slices.Contains(r.AnimalIDs, animalID)
}

// Admit adds the animal to the room, accounting its volume and pinning
// the room category if it was unconstrained. Admitting an animal that is
// already a member is a no-op, so a retried placement attempt cannot
// account the same volume twice.
func (r *Room) Admit(a *Animal) {
	if r.Has(a.ID) {
		return
	}
	r.AnimalIDs = append(r.AnimalIDs, a.ID)
	r.UsedVolume += a.Volume
	if r.AllowedCategory == nil {
		category := a.Category
		r.AllowedCategory = &category
	}
}

// Evict removes the animal from the room, releasing its volume (clamped
// at zero to absorb floating point drift) and clearing the category pin
// when the room empties. Evicting a non-member is a no-op.
func (r *Room) Evict(a *Animal) {
	if !r.Has(a.ID) {
		return
	}
	r.AnimalIDs = slices.DeleteFunc(r.AnimalIDs, func(id string) bool {
		return id == a.ID
	})
	r.UsedVolume = max(0, r.UsedVolume-a.Volume)
	if r.Empty() {
		r.AllowedCategory = nil
	}
}
