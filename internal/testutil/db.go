package testutil

import (
	"path/filepath"
	"testing"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/config"
	"volunteer-connect/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database in a temp dir. The connection is
// closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	password.SetCost(bcrypt.MinCost)

	cfg := &config.Config{
		AppMode: "prod",
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "test.db"),
		},
	}

	db, err := config.ConnectDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// TestConfig returns a config suitable for auth tests
func TestConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test_secret",
			RefreshSecret:    "test_refresh_secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
	}
}
