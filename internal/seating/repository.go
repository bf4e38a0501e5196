package seating

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetEventSeats(ctx context.Context, eventID uuid.UUID) ([]Seat, error)
	GetSeatByID(ctx context.Context, seatID uuid.UUID) (*Seat, error)
	MarkSeatsBooked(ctx context.Context, bookings []SeatBooking) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEventSeats(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("section_id, row, number").
		Find(&seats).Error; err != nil {
		return nil, fmt.Errorf("failed to load event seats: %w", err)
	}
	return seats, nil
}

func (r *repository) GetSeatByID(ctx context.Context, seatID uuid.UUID) (*Seat, error) {
	var seat Seat
	if err := r.db.WithContext(ctx).First(&seat, "id = ?", seatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to load seat: %w", err)
	}
	return &seat, nil
}

// MarkSeatsBooked persists a confirmation in one transaction. The seat
// update is guarded on the AVAILABLE status so a row that was somehow
// booked out of band fails the whole batch.
func (r *repository) MarkSeatsBooked(ctx context.Context, bookings []SeatBooking) error {
	seatIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		seatIDs = append(seatIDs, b.SeatID)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("id IN ? AND status = ?", seatIDs, string(StateAvailable)).
			Update("status", string(StateBooked))
		if result.Error != nil {
			return fmt.Errorf("failed to mark seats booked: %w", result.Error)
		}
		if result.RowsAffected != int64(len(seatIDs)) {
			return fmt.Errorf("booked %d of %d seats, rolling back", result.RowsAffected, len(seatIDs))
		}

		if err := tx.Create(&bookings).Error; err != nil {
			return fmt.Errorf("failed to record seat bookings: %w", err)
		}
		return nil
	})
}
