package notifications

import (
	"encoding/json"
	"time"
)

const (
	EventTypeSeatsBooked  = "seating.booked"
	EventTypeHoldExpired  = "seating.hold_expired"
	EventTypeHoldReleased = "seating.hold_released"
)

// SeatEvent is the message published for every seat lifecycle change
type SeatEvent struct {
	Type       string    `json:"type"`
	EventID    string    `json:"event_id"`
	SeatIDs    []string  `json:"seat_ids"`
	HolderID   string    `json:"holder_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e SeatEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey keeps all messages for one event on one partition
func (e SeatEvent) PartitionKey() string {
	return e.EventID
}
