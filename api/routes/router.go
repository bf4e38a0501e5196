package routes

import (
	"net/http"
	"time"

	"seatlock/internal/events"
	"seatlock/internal/notifications"
	"seatlock/internal/seating"
	"seatlock/internal/shared/config"
	"seatlock/internal/shared/database"
	"seatlock/internal/shared/utils/response"
	"seatlock/pkg/cache"
	"seatlock/pkg/logger"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Setup wires every module onto the engine and returns the seating
// service so the caller can run the expiry sweeper against it
func Setup(
	engine *gin.Engine,
	db *database.DB,
	cfg *config.Config,
	cacheService cache.Service,
	producer notifications.Publisher,
	log *logger.Logger,
) seating.Service {
	registerHealthRoutes(engine, db)

	eventService := events.NewService(events.NewRepository(db.PostgreSQL), cacheService)
	lockTable := seating.NewLockTable(cfg.Seating.HoldTTL)
	seatingService := seating.NewService(
		seating.NewRepository(db.PostgreSQL),
		lockTable,
		eventService,
		cacheService,
		producer,
		log,
		cfg.Seating.MaxConfirmSeats,
	)

	v1 := engine.Group("/api/v1")
	{
		events.RegisterRoutes(v1, events.NewController(eventService))
		seating.RegisterRoutes(v1, seating.NewController(seatingService), cfg)
	}

	return seatingService
}

func registerHealthRoutes(engine *gin.Engine, db *database.DB) {
	engine.GET("/ping", func(c *gin.Context) {
		response.RespondJSON(c, "success", http.StatusOK, "pong", nil, nil)
	})

	engine.GET("/health", func(c *gin.Context) {
		health := db.HealthCheck(c.Request.Context())
		status := "success"
		code := http.StatusOK
		for _, v := range health {
			if v != "healthy" {
				status = "error"
				code = http.StatusServiceUnavailable
				break
			}
		}
		response.RespondJSON(c, status, code, "Health check", health, nil)
	})

	engine.GET("/status", func(c *gin.Context) {
		response.RespondJSON(c, "success", http.StatusOK, "Service status", map[string]interface{}{
			"service": "seatlock",
			"uptime":  time.Since(startTime).String(),
		}, nil)
	})
}
