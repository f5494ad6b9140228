package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glefebvre/cineflix/internal/database"
	"github.com/glefebvre/cineflix/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB creates an in-memory SQLite database for testing
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// a named shared-cache database keeps every pooled connection on the same data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// MockDB returns a GORM handle over go-sqlmock for exercising database failure paths
func MockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open mock database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db, mock
}

// CleanupDB removes all records from test database tables
func CleanupDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	db.Exec("DELETE FROM content")
	db.Exec("DELETE FROM banners")
	db.Exec("DELETE FROM stories")
	db.Exec("DELETE FROM settings")
	db.Exec("DELETE FROM admin_users")
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// NewMovie builds an unsaved movie with sensible defaults
func NewMovie(overrides ...func(*models.Content)) *models.Content {
	c := &models.Content{
		Kind:      models.KindMovie,
		Title:     "Test Movie",
		Thumbnail: "https://img.example.com/movie.jpg",
		Category:  "Exclusive",
		Rating:    8.5,
		Views:     "1.2K",
		WatchCode: Ptr("movie_code"),
	}
	for _, override := range overrides {
		override(c)
	}
	return c
}

// NewSeries builds an unsaved series with one episode
func NewSeries(overrides ...func(*models.Content)) *models.Content {
	c := &models.Content{
		Kind:      models.KindSeries,
		Title:     "Test Series",
		Thumbnail: "https://img.example.com/series.jpg",
		Category:  "Korean Drama",
		Rating:    9,
		Views:     "0",
		Episodes: []models.Episode{
			{ID: "ep_1", Season: 1, Number: 1, Title: "Pilot", Duration: "45m", WatchCode: "s1e1"},
		},
	}
	for _, override := range overrides {
		override(c)
	}
	return c
}

// CreateContent stores a content item, stamping CreatedAt so ordering is deterministic
func CreateContent(t *testing.T, db *gorm.DB, c *models.Content) *models.Content {
	t.Helper()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create content: %v", err)
	}
	return c
}

// WithTitle sets the title
func WithTitle(title string) func(*models.Content) {
	return func(c *models.Content) {
		c.Title = title
	}
}

// WithCategory sets the category
func WithCategory(category string) func(*models.Content) {
	return func(c *models.Content) {
		c.Category = category
	}
}

// WithCreatedAt sets the creation time
func WithCreatedAt(at time.Time) func(*models.Content) {
	return func(c *models.Content) {
		c.CreatedAt = at
	}
}

// WithTop10 flags the item as ranked; a zero position leaves it unset
func WithTop10(position int) func(*models.Content) {
	return func(c *models.Content) {
		c.IsTop10 = true
		if position > 0 {
			c.Top10Position = &position
		}
	}
}

// WithEpisodes replaces the episode list
func WithEpisodes(episodes ...models.Episode) func(*models.Content) {
	return func(c *models.Content) {
		c.Episodes = episodes
	}
}

// AssertCount verifies the count of records in a table
func AssertCount(t *testing.T, db *gorm.DB, model interface{}, expected int64, message string) {
	t.Helper()
	var count int64
	db.Model(model).Count(&count)
	if count != expected {
		t.Fatalf("%s: expected count %d, got %d", message, expected, count)
	}
}
