package seating

import "time"

type HoldResponse struct {
	SeatID     string    `json:"seat_id"`
	HolderID   string    `json:"holder_id"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func NewHoldResponse(h *Hold) HoldResponse {
	return HoldResponse{
		SeatID:     h.SeatID.String(),
		HolderID:   h.HolderID,
		AcquiredAt: h.AcquiredAt,
		ExpiresAt:  h.ExpiresAt,
	}
}

type ConfirmResponse struct {
	SeatIDs  []string `json:"seat_ids"`
	HolderID string   `json:"holder_id"`
}

// SeatView is one seat in an event snapshot. HolderSelf tells the
// caller a Locked seat is their own; other holders stay anonymous.
type SeatView struct {
	ID         string    `json:"id"`
	Row        string    `json:"row"`
	Number     int       `json:"number"`
	SectionID  string    `json:"section_id"`
	Status     SeatState `json:"status"`
	HolderSelf bool      `json:"holder_self"`
}

type SnapshotResponse struct {
	EventID string     `json:"event_id"`
	Seats   []SeatView `json:"seats"`
}
