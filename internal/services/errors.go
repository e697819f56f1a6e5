package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIndex is matched by every *IndexError.
	ErrInvalidIndex = errors.New("invalid index")
	// ErrNotFound is returned when a driver or vehicle id is unknown.
	ErrNotFound = errors.New("not found")
)

// IndexKind names the collection a positional index addressed.
type IndexKind string

const (
	DriverIndex  IndexKind = "driver"
	VehicleIndex IndexKind = "vehicle"
)

// IndexError reports a driver or vehicle position outside [0, Len).
type IndexError struct {
	Kind  IndexKind
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid %s index %d (have %d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrInvalidIndex
}

func checkIndex(kind IndexKind, index, length int) error {
	if index < 0 || index >= length {
		return &IndexError{Kind: kind, Index: index, Len: length}
	}
	return nil
}
