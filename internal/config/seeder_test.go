package config_test

import (
	"testing"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/config"
	"volunteer-connect/internal/pkg/password"
	"volunteer-connect/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedConfig(mode string) *config.Config {
	cfg := testutil.TestConfig()
	cfg.AppMode = mode
	cfg.Seed = config.SeedConfig{AdminEmail: "root@test.com", AdminPassword: "rootpass123"}
	return cfg
}

func TestSeeder_DemoIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	seeder := config.NewSeeder(db, seedConfig("dev"))

	require.NoError(t, seeder.Run(true))
	require.NoError(t, seeder.Run(true))

	var users, missions int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Mission{}).Count(&missions).Error)
	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(1), missions)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "root@test.com").First(&admin).Error)
	assert.Equal(t, "ADMIN", admin.Role)
	assert.True(t, password.Verify("rootpass123", admin.Password))
}

func TestSeeder_AdminOnly(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, config.NewSeeder(db, seedConfig("dev")).Run(false))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestSeeder_ProdGuards(t *testing.T) {
	db := testutil.NewDB(t)

	cfg := seedConfig("prod")
	assert.Error(t, config.NewSeeder(db, cfg).Run(true))

	cfg.Seed.AdminPassword = "admin123456"
	assert.Error(t, config.NewSeeder(db, cfg).Run(false))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
