package services

import (
	"context"
	"time"

	"volunteer-connect/internal/adapters/persistence/repositories"
	"volunteer-connect/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

const (
	missionCompletionSchedule = "@hourly"
	tokenCleanupSchedule      = "@daily"
)

// CronService runs housekeeping jobs. The jobs only touch mission status
// and refresh tokens, never applications or the accepted counter.
type CronService struct {
	cron             *cron.Cron
	missionRepo      repositories.MissionRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	completeAfter    time.Duration
	now              func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(
	missionRepo repositories.MissionRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	completeAfterHours int,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		missionRepo:      missionRepo,
		refreshTokenRepo: refreshTokenRepo,
		completeAfter:    time.Duration(completeAfterHours) * time.Hour,
		now:              time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(missionCompletionSchedule, func() {
		s.CompleteStartedMissions(context.Background())
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(tokenCleanupSchedule, func() {
		s.CleanupExpiredTokens(context.Background())
	}); err != nil {
		return err
	}

	s.cron.Start()
	logger.Log.WithField("jobs", len(s.cron.Entries())).Info("cron scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.Log.Info("cron scheduler stopped")
}

// CompleteStartedMissions moves ACTIVE missions past the grace window to COMPLETED
func (s *CronService) CompleteStartedMissions(ctx context.Context) int64 {
	cutoff := s.now().UTC().Add(-s.completeAfter)

	n, err := s.missionRepo.CompleteStarted(ctx, cutoff)
	if err != nil {
		logger.Log.WithError(err).Error("complete started missions")
		return 0
	}
	if n > 0 {
		logger.Log.WithField("count", n).Info("missions completed")
	}
	return n
}

// CleanupExpiredTokens deletes expired refresh tokens
func (s *CronService) CleanupExpiredTokens(ctx context.Context) int64 {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("cleanup expired refresh tokens")
		return 0
	}
	if n > 0 {
		logger.Log.WithField("count", n).Info("expired refresh tokens deleted")
	}
	return n
}
