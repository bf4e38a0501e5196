package seating

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Holder ids come from an external identity provider and are opaque,
// but a blank or whitespace-only id is always a caller bug
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("holderid", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

type LockSeatRequest struct {
	SeatID   string `json:"seat_id" binding:"required,uuid"`
	HolderID string `json:"holder_id" binding:"required,holderid"`
}

type UnlockSeatRequest struct {
	SeatID   string `json:"seat_id" binding:"required,uuid"`
	HolderID string `json:"holder_id" binding:"required,holderid"`
}

type ConfirmSeatsRequest struct {
	SeatIDs  []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
	HolderID string   `json:"holder_id" binding:"required,holderid"`
}
