package seating

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrSeatNotFound      = errors.New("seat not found")
	ErrSeatUnavailable   = errors.New("seat already booked")
	ErrSeatAlreadyLocked = errors.New("seat locked by another holder")
	ErrNotLockedByHolder = errors.New("seat not locked by this holder")
	ErrHoldExpired       = errors.New("hold has expired")
	ErrTooManySeats      = errors.New("too many seats in one confirmation")
)

// HoldMismatchError reports the seats that blocked an all-or-nothing
// confirmation: missing, expired, or held by someone else.
type HoldMismatchError struct {
	SeatIDs []uuid.UUID
}

func (e *HoldMismatchError) Error() string {
	return fmt.Sprintf("confirmation aborted: %d seat(s) not held by caller", len(e.SeatIDs))
}

func (e *HoldMismatchError) MismatchedIDs() []string {
	ids := make([]string, 0, len(e.SeatIDs))
	for _, id := range e.SeatIDs {
		ids = append(ids, id.String())
	}
	return ids
}
