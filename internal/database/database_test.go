package database

import (
	"path/filepath"
	"testing"

	"github.com/glefebvre/cineflix/internal/config"
	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	logger.SetDatabaseLogger(logger.Discard())
	t.Cleanup(func() { logger.SetDatabaseLogger(nil) })

	cfg := config.Defaults()
	cfg.Database.Path = filepath.Join(t.TempDir(), "nested", "cineflix.db")

	conn, err := Open(cfg)
	require.NoError(t, err)

	for _, table := range []string{"content", "banners", "stories", "settings", "admin_users"} {
		assert.True(t, conn.Migrator().HasTable(table), "expected table %s", table)
	}
	assert.NoError(t, Ping(conn))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := config.Defaults()
	cfg.Database.Driver = "mongo"

	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestHealthCheck_NotInitialized(t *testing.T) {
	db = nil
	assert.Error(t, HealthCheck())
	assert.NoError(t, Close())
}

func TestInitialize_UsesGlobalConfig(t *testing.T) {
	logger.SetDatabaseLogger(logger.Discard())
	t.Cleanup(func() { logger.SetDatabaseLogger(nil) })

	cfg := config.Defaults()
	cfg.Database.Path = filepath.Join(t.TempDir(), "cineflix.db")
	config.Set(cfg)
	t.Cleanup(func() { config.Set(nil) })

	require.NoError(t, Initialize())
	assert.NotNil(t, Get())
	assert.NoError(t, HealthCheck())
	assert.NoError(t, Close())
}

func TestIsConnectionError(t *testing.T) {
	logger.SetDatabaseLogger(logger.Discard())
	t.Cleanup(func() { logger.SetDatabaseLogger(nil) })

	cfg := config.Defaults()
	cfg.Database.Driver = "mongo"
	_, err := Open(cfg)
	assert.False(t, isConnectionError(err))

	cfg = config.Defaults()
	cfg.Database.Driver = "postgres"
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 1
	cfg.Database.User = "cineflix"
	cfg.Database.DBName = "cineflix"
	_, err = Open(cfg)
	require.Error(t, err)
	assert.True(t, isConnectionError(err))
}
