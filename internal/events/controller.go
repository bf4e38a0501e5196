package events

import (
	"errors"
	"net/http"

	"seatlock/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) ListEvents(c *gin.Context) {
	list, err := ctrl.service.ListEvents(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError,
			"Failed to fetch events", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK,
		"Events fetched successfully", list, nil)
}

func (ctrl *Controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest,
			"Invalid event id", nil, nil)
		return
	}

	event, err := ctrl.service.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound,
				"Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError,
			"Failed to fetch event", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK,
		"Event fetched successfully", event, nil)
}

func (ctrl *Controller) GetEventSections(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest,
			"Invalid event id", nil, nil)
		return
	}

	sections, err := ctrl.service.GetEventSections(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound,
				"Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError,
			"Failed to fetch sections", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK,
		"Sections fetched successfully", sections, nil)
}
