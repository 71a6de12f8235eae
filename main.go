package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ncst-capstone/evaluation-service/internal/config"
	"github.com/ncst-capstone/evaluation-service/internal/database"
	"github.com/ncst-capstone/evaluation-service/internal/events"
	"github.com/ncst-capstone/evaluation-service/internal/handlers"
	"github.com/ncst-capstone/evaluation-service/internal/repositories/postgres"
	"github.com/ncst-capstone/evaluation-service/internal/services"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
	"github.com/ncst-capstone/evaluation-service/internal/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	db, err := database.Connect(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword, slogLogger); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	redisClient, err := database.NewRedisClient(context.Background(), cfg.RedisURL, slogLogger)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis, caching disabled: %v", err)
		redisClient = nil
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	v := validator.New()
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to create event publisher: %v", err)
		}
	} else {
		slogLogger.Info("Kafka not configured, events recorded in memory only")
		publisher = events.NewMockEventPublisher(slogLogger)
	}

	serviceManager := services.NewServiceManager(
		repoManager.GetRepository(),
		slogLogger,
		v,
		tokens,
		publisher,
		services.ServiceManagerConfig{
			RatingScale: services.RatingScale{Min: cfg.RatingMin, Max: cfg.RatingMax},
		},
	)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	handlerManager := handlers.NewHandlerManager(serviceManager, tokens, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	logger.Info("Server exited")
}
