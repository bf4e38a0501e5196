package seating

import (
	"seatlock/internal/shared/config"
	"seatlock/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	seatingRoutes := rg.Group("/seating")
	{
		seatingRoutes.GET("/event/:eventId", middleware.OptionalAuth(cfg), ctrl.GetSnapshot)

		// Mutations require a verified holder identity
		seatingRoutes.POST("/lock", middleware.JWTAuth(cfg), ctrl.LockSeat)
		seatingRoutes.POST("/unlock", middleware.JWTAuth(cfg), ctrl.UnlockSeat)
		seatingRoutes.POST("/confirm", middleware.JWTAuth(cfg), ctrl.ConfirmSeats)
	}
}
