package seating

import (
	"time"

	"github.com/google/uuid"
)

// Seat is the durable catalog row. Only AVAILABLE and BOOKED are ever
// persisted in Status; live holds belong to the lock table.
type Seat struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	SectionID uuid.UUID `json:"section_id" gorm:"type:uuid;not null;index"`
	Row       string    `json:"row" gorm:"not null"`
	Number    int       `json:"number" gorm:"not null"`
	Numbered  bool      `json:"numbered" gorm:"not null;default:true"`
	Status    string    `json:"status" gorm:"not null;default:'AVAILABLE'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

// SeatBooking is the durable record written when a confirmation succeeds
type SeatBooking struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SeatID   uuid.UUID `json:"seat_id" gorm:"type:uuid;not null;uniqueIndex"`
	EventID  uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	HolderID string    `json:"holder_id" gorm:"not null;index"`
	BookedAt time.Time `json:"booked_at" gorm:"not null"`
}

func (SeatBooking) TableName() string {
	return "seat_bookings"
}

// Hold is a live claim on one seat. At most one exists per seat.
type Hold struct {
	SeatID     uuid.UUID
	EventID    uuid.UUID
	HolderID   string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

// LiveAt reports whether the hold is still in force at the given instant
func (h *Hold) LiveAt(now time.Time) bool {
	return h != nil && h.ExpiresAt.After(now)
}
