package world

import (
	"errors"
	"fmt"
)

// ErrSnapshotNotFound is returned by snapshot stores when a slot is empty
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrOrderNotFound is returned when a sales or work order id is unknown
type ErrOrderNotFound struct {
	OrderType string
	ID        string
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.OrderType, e.ID)
}

// ErrInvalidSnapshot is returned when a snapshot cannot be restored
type ErrInvalidSnapshot struct {
	Reason string
}

func (e *ErrInvalidSnapshot) Error() string {
	return fmt.Sprintf("invalid snapshot: %s", e.Reason)
}
