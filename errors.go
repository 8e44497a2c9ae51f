package zoo

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a business failure. Codes are stable and surfaced
// to API clients as-is.
type ErrorCode string

const (
	CodeAnimalNotFound   ErrorCode = "ANIMAL_NOT_FOUND"
	CodeRoomNotFound     ErrorCode = "ROOM_NOT_FOUND"
	CodeRoomExists       ErrorCode = "ROOM_IS_EXISTS"
	CodeCategoryMismatch ErrorCode = "CATEGORY_MISMATCH"
	CodeRoomFull         ErrorCode = "ROOM_IS_FULL"
	CodeConcurrency      ErrorCode = "CONCURRENT_ERROR"
	CodeAnimalNotPlaced  ErrorCode = "ANIMAL_NOT_PLACED"
)

var (
	// ErrAnimalStillPlaced rejects deleting an animal that still occupies a room.
	ErrAnimalStillPlaced = errors.New("animal is still placed in a room")
	// ErrRoomOccupied rejects deleting a room that still holds animals.
	ErrRoomOccupied = errors.New("room still holds animals")
)

type Error struct {
	Code ErrorCode
	err  error
}

func NewError(code ErrorCode, err error) *Error {
	return &Error{Code: code, err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("zoo error(code: %s): %v", e.Code, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

func ErrorHasCode(target error, code ErrorCode) bool {
	var e *Error
	if errors.As(target, &e) {
		return e.Code == code
	}
	return false
}
