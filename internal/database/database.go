package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glefebvre/cineflix/internal/config"
	apperrors "github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/glefebvre/cineflix/internal/metrics"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/glefebvre/cineflix/internal/retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// Initialize sets up the database connection and runs migrations. Failed
// connection attempts are retried with backoff.
func Initialize() error {
	cfg := config.Get()
	policy := retry.DefaultPolicy()
	policy.Attempts = cfg.Database.ConnectAttempts
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.AppLogger().WithFields(map[string]interface{}{
			"attempt": attempt,
			"wait_ms": wait.Milliseconds(),
			"error":   err.Error(),
		}).Warn("database not reachable, retrying")
	}

	conn, err := retry.Do(context.Background(), policy, isConnectionError, func(int) (*gorm.DB, error) {
		return Open(cfg)
	})
	if err != nil {
		return err
	}
	db = conn
	return nil
}

func isConnectionError(err error) bool {
	return apperrors.GetErrorCode(err) == apperrors.CodeDatabaseConnection
}

// Open connects using the configured driver and migrates the schema
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewQueryLogger(logger.DatabaseLogger(), logger.QueryLogOptions{
			Level:         cfg.GetDatabaseLogLevel(),
			SlowThreshold: time.Duration(cfg.Database.SlowQueryMS) * time.Millisecond,
			Observe:       metrics.ObserveQuery,
		}),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseConnection, "failed to connect to database")
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		// one writer at a time keeps sqlite from returning SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return conn, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Get returns the database instance
func Get() *gorm.DB {
	return db
}

// HealthCheck verifies database connectivity
func HealthCheck() error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return Ping(db)
}

// Ping verifies connectivity of the given connection
func Ping(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}

// Migrate creates or updates every table the service uses
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Content{},
		&models.Banner{},
		&models.Story{},
		&models.Settings{},
		&models.AdminUser{},
	)
}
