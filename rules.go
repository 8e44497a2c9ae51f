package zoo

import "fmt"

// volumeTolerance absorbs floating point drift in capacity comparisons.
const volumeTolerance = 1e-9

// CheckPlacement validates whether the animal may enter the room given the
// room's current state. It is pure: no mutation, no I/O. Callers must pass
// snapshots read within the current attempt, never state from a previous
// failed attempt.
func CheckPlacement(room *Room, animal *Animal) error {
	if room.AllowedCategory != nil && *room.AllowedCategory != animal.Category {
		return NewError(CodeCategoryMismatch, fmt.Errorf(
			"category mismatch [room category: %s, animal category: %s]",
			*room.AllowedCategory, animal.Category))
	}
	if animal.Volume > room.Remaining()+volumeTolerance {
		return NewError(CodeRoomFull, fmt.Errorf(
			"room %q is out of space [capacity: %g, used: %g, animal volume: %g]",
			room.ID, room.Capacity, room.UsedVolume, animal.Volume))
	}
	return nil
}
