package database

import (
	"fmt"

	"seatlock/internal/events"
	"seatlock/internal/seating"

	"gorm.io/gorm"
)

// AutoMigrate runs schema migrations for all persisted models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&events.Event{},
		&events.Section{},
		&seating.Seat{},
		&seating.SeatBooking{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
