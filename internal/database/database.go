package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ncst-capstone/evaluation-service/internal/models"
)

// Connect opens the postgres connection pool. TranslateError turns
// driver-level constraint violations into gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated, which the repository layer relies on.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	logMode := logger.Warn
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Student{},
		&models.Teacher{},
		&models.Question{},
		&models.Evaluation{},
		&models.EvaluationDetail{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// EnsureAdmin seeds the bootstrap administrator account when the
// admins table is empty. Existing admins are never touched.
func EnsureAdmin(db *gorm.DB, username, password string, log *slog.Logger) error {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Admin{
		Username: username,
		Password: string(hash),
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	log.Info("Bootstrap admin created", "username", username)
	return nil
}

// NewRedisClient connects to redis from a URL. An empty URL returns a
// nil client; the cache layer treats that as cache-disabled.
func NewRedisClient(ctx context.Context, redisURL string, log *slog.Logger) (*redis.Client, error) {
	if redisURL == "" {
		log.Info("Redis not configured, caching disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
