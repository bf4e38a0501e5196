package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seatlock/api/routes"
	"seatlock/internal/notifications"
	"seatlock/internal/seating"
	"seatlock/internal/shared/config"
	"seatlock/internal/shared/database"
	"seatlock/pkg/cache"
	"seatlock/pkg/logger"
	"seatlock/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, real deployments use the environment
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.Server.GinMode)

	log := logger.New()
	logger.SetDefault(log)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Error("Failed to initialize databases", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.AutoMigrate(db.PostgreSQL); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cacheService := cache.NewService(db.Redis)

	var producer notifications.Publisher
	if cfg.Kafka.Enabled {
		p, err := notifications.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("Failed to initialize Kafka producer", "error", err)
			os.Exit(1)
		}
		defer p.Close()
		producer = p
	}

	engine := setupEngine(cfg, db, log)
	seatingService := routes.Setup(engine, db, cfg, cacheService, producer, log)

	sweeper := seating.NewSweeper(seatingService, cfg.Seating.SweepInterval, log)
	sweeper.Start()
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}
	log.Info("Server stopped")
}

func setupEngine(cfg *config.Config, db *database.DB, log *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter := ratelimit.NewRateLimiter(db.Redis, &ratelimit.Config{
		Enabled:                 cfg.RateLimit.Enabled,
		WindowDuration:          cfg.RateLimit.WindowDuration,
		DefaultRequests:         cfg.RateLimit.DefaultRequests,
		PublicRequests:          cfg.RateLimit.PublicRequests,
		SeatingRequests:         cfg.RateLimit.SeatingRequests,
		SeatingCriticalRequests: cfg.RateLimit.SeatingCriticalRequests,
		HealthRequests:          cfg.RateLimit.HealthRequests,
		WhitelistedIPs:          cfg.RateLimit.WhitelistedIPs,
	})
	engine.Use(ratelimit.Middleware(rateLimiter))

	return engine
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.LogHTTPRequest(c, time.Since(start))
	}
}
