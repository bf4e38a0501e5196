package seating

// SeatState is the lifecycle state of a seat as seen by callers.
// AVAILABLE and BOOKED are also the persisted statuses; LOCKED only
// ever exists in the lock table.
type SeatState string

const (
	StateAvailable SeatState = "AVAILABLE"
	StateLocked    SeatState = "LOCKED"
	StateBooked    SeatState = "BOOKED"
)
