package services_test

import (
	"context"
	"testing"

	"volunteer-connect/internal/adapters/persistence/repositories"
	"volunteer-connect/internal/core/services"
	"volunteer-connect/internal/testutil"
)

type env struct {
	fx           *testutil.Fixtures
	auth         *services.AuthService
	missions     *services.MissionService
	applications *services.ApplicationService
	profiles     *services.ProfileService
	cron         *services.CronService
	tokens       repositories.RefreshTokenRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewDB(t)
	tx := repositories.NewTransactor(db)
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewRefreshTokenRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	missionRepo := repositories.NewMissionRepository(db)
	appRepo := repositories.NewApplicationRepository(db)

	return &env{
		fx:           testutil.NewFixtures(t, db),
		auth:         services.NewAuthService(tx, userRepo, tokenRepo, testutil.TestConfig()),
		missions:     services.NewMissionService(tx, missionRepo, appRepo),
		applications: services.NewApplicationService(tx, appRepo, missionRepo),
		profiles:     services.NewProfileService(tx, userRepo, profileRepo),
		cron:         services.NewCronService(missionRepo, tokenRepo, 0),
		tokens:       tokenRepo,
	}
}

var ctx = context.Background()
