package seating

import (
	"errors"
	"net/http"

	"seatlock/internal/shared/middleware"
	"seatlock/internal/shared/utils/response"
	"seatlock/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) GetSnapshot(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest,
			"Invalid event id", nil, nil)
		return
	}

	// Anonymous readers get the snapshot without holder_self
	holderID, _ := middleware.HolderID(c)

	seats, err := ctrl.service.Snapshot(c.Request.Context(), eventID, holderID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK,
		"Seat map fetched successfully", SnapshotResponse{
			EventID: eventID.String(),
			Seats:   seats,
		}, nil)
}

func (ctrl *Controller) LockSeat(c *gin.Context) {
	var req LockSeatRequest
	if !ctrl.bindMutation(c, &req, func() string { return req.HolderID }) {
		return
	}

	seatID, _ := uuid.Parse(req.SeatID)
	hold, err := ctrl.service.Lock(c.Request.Context(), seatID, req.HolderID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK,
		"Seat locked successfully", NewHoldResponse(hold), nil)
}

func (ctrl *Controller) UnlockSeat(c *gin.Context) {
	var req UnlockSeatRequest
	if !ctrl.bindMutation(c, &req, func() string { return req.HolderID }) {
		return
	}

	seatID, _ := uuid.Parse(req.SeatID)
	if err := ctrl.service.Unlock(c.Request.Context(), seatID, req.HolderID); err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK,
		"Seat unlocked successfully", nil, nil)
}

func (ctrl *Controller) ConfirmSeats(c *gin.Context) {
	var req ConfirmSeatsRequest
	if !ctrl.bindMutation(c, &req, func() string { return req.HolderID }) {
		return
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, _ := uuid.Parse(raw)
		seatIDs = append(seatIDs, id)
	}

	confirmed, err := ctrl.service.Confirm(c.Request.Context(), seatIDs, req.HolderID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	ids := make([]string, 0, len(confirmed))
	for _, id := range confirmed {
		ids = append(ids, id.String())
	}

	response.RespondJSON(c, "success", http.StatusOK,
		"Seats confirmed successfully", ConfirmResponse{
			SeatIDs:  ids,
			HolderID: req.HolderID,
		}, nil)
}

// bindMutation validates the request body and enforces that the claimed
// holder matches the authenticated subject
func (ctrl *Controller) bindMutation(c *gin.Context, req interface{}, holderID func() string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest,
			"Invalid request body", nil, err.Error())
		return false
	}

	subject, ok := middleware.HolderID(c)
	if !ok || subject != holderID() {
		response.RespondJSON(c, "error", http.StatusForbidden,
			"Holder does not match authenticated subject", nil, nil)
		return false
	}
	return true
}

func (ctrl *Controller) respondError(c *gin.Context, err error) {
	var mismatch *HoldMismatchError
	switch {
	case errors.As(err, &mismatch):
		response.RespondJSON(c, "error", http.StatusConflict,
			"Confirmation aborted", nil, map[string]interface{}{
				"mismatched_seat_ids": mismatch.MismatchedIDs(),
			})
	case errors.Is(err, ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound,
			"Event not found", nil, nil)
	case errors.Is(err, ErrSeatNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound,
			"Seat not found", nil, nil)
	case errors.Is(err, ErrSeatUnavailable):
		response.RespondJSON(c, "error", http.StatusConflict,
			"Seat already booked", nil, nil)
	case errors.Is(err, ErrSeatAlreadyLocked):
		response.RespondJSON(c, "error", http.StatusConflict,
			"Seat locked by another holder", nil, nil)
	case errors.Is(err, ErrNotLockedByHolder):
		response.RespondJSON(c, "error", http.StatusConflict,
			"Seat not locked by this holder", nil, nil)
	case errors.Is(err, ErrHoldExpired):
		response.RespondJSON(c, "error", http.StatusGone,
			"Hold has expired", nil, nil)
	case errors.Is(err, ErrTooManySeats):
		response.RespondJSON(c, "error", http.StatusBadRequest,
			"Too many seats in one confirmation", nil, nil)
	default:
		logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError,
			"Internal server error", nil, nil)
	}
}
