package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/adapters/persistence/repositories"
	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/logger"
	"volunteer-connect/internal/pkg/pagination"

	"github.com/sirupsen/logrus"
)

const maxMessageLength = 2000

// ApplicationService owns the application state machine. It is the only
// writer of Application.status and of Mission.volunteers_accepted.
type ApplicationService struct {
	tx          repositories.Transactor
	appRepo     repositories.ApplicationRepository
	missionRepo repositories.MissionRepository
	now         func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(
	tx repositories.Transactor,
	appRepo repositories.ApplicationRepository,
	missionRepo repositories.MissionRepository,
) *ApplicationService {
	return &ApplicationService{
		tx:          tx,
		appRepo:     appRepo,
		missionRepo: missionRepo,
		now:         time.Now,
	}
}

// SubmitApplicationInput represents submit application input
type SubmitApplicationInput struct {
	MissionID uint   `json:"mission_id"`
	Message   string `json:"message"`
}

// DecideApplicationInput represents an NGO decision
type DecideApplicationInput struct {
	Status   string  `json:"status"`
	Feedback *string `json:"feedback"`
}

// ListApplicationsInput represents list applications input
type ListApplicationsInput struct {
	Status string
	Page   int
	Limit  int
}

// ApplicationListOutput represents list applications output
type ApplicationListOutput struct {
	Applications []*models.Application `json:"applications"`
	Pagination   *pagination.Meta      `json:"pagination"`
}

// Submit creates a PENDING application for the calling volunteer
func (s *ApplicationService) Submit(ctx context.Context, p domain.Principal, input *SubmitApplicationInput) (*models.Application, error) {
	if !domain.CanApply(p) {
		return nil, fmt.Errorf("%w: only volunteers can apply to missions", domain.ErrForbidden)
	}
	if input.MissionID == 0 {
		return nil, fmt.Errorf("%w: mission_id is required", domain.ErrValidation)
	}
	message := strings.TrimSpace(input.Message)
	if len(message) > maxMessageLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", domain.ErrValidation, maxMessageLength)
	}

	mission, err := s.missionRepo.GetByID(ctx, input.MissionID)
	if err != nil {
		return nil, fmt.Errorf("get mission %d: %w", input.MissionID, err)
	}

	now := s.now()
	if !domain.MissionStatus(mission.Status).AcceptsApplications() {
		return nil, fmt.Errorf("%w: mission is %s and not accepting applications", domain.ErrInvalidState, mission.Status)
	}
	if mission.HasStarted(now) {
		return nil, fmt.Errorf("%w: mission date has already passed", domain.ErrInvalidState)
	}

	exists, err := s.appRepo.Exists(ctx, mission.ID, p.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: you have already applied to this mission", domain.ErrConflict)
	}

	app := &models.Application{
		MissionID:   mission.ID,
		VolunteerID: p.UserID,
		Status:      string(domain.ApplicationPending),
		Message:     message,
		AppliedAt:   now,
	}

	// the unique (mission_id, volunteer_id) index catches a concurrent duplicate
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"mission_id":     mission.ID,
		"volunteer_id":   p.UserID,
	}).Info("application submitted")

	return app, nil
}

// Decide accepts or rejects a PENDING application. The status write and the
// capacity increment commit together or not at all.
func (s *ApplicationService) Decide(ctx context.Context, p domain.Principal, applicationID uint, input *DecideApplicationInput) (*models.Application, error) {
	decision := domain.ApplicationStatus(strings.ToUpper(strings.TrimSpace(input.Status)))
	if !decision.IsDecision() {
		return nil, fmt.Errorf("%w: status must be ACCEPTED or REJECTED", domain.ErrValidation)
	}

	var missionID uint
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		app, err := s.appRepo.GetByID(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("get application %d: %w", applicationID, err)
		}
		missionID = app.MissionID

		if app.Mission == nil || !domain.CanDecide(p, app.Mission.CreatorID) {
			return fmt.Errorf("%w: only the mission owner can review applications", domain.ErrForbidden)
		}
		if app.CurrentStatus() != domain.ApplicationPending {
			return fmt.Errorf("%w: application is %s, not PENDING", domain.ErrInvalidState, app.Status)
		}
		if decision == domain.ApplicationAccepted && app.Mission.IsFull() {
			return fmt.Errorf("%w: mission already has %d of %d volunteers", domain.ErrCapacityExceeded,
				app.Mission.VolunteersAccepted, app.Mission.VolunteersNeeded)
		}

		updates := map[string]interface{}{"reviewed_at": s.now()}
		if input.Feedback != nil {
			updates["feedback"] = strings.TrimSpace(*input.Feedback)
		}

		ok, err := s.appRepo.Transition(ctx, app.ID, string(domain.ApplicationPending), string(decision), updates)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: application was modified concurrently", domain.ErrInvalidState)
		}

		if decision == domain.ApplicationAccepted {
			ok, err := s.missionRepo.IncrementAccepted(ctx, app.MissionID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: no volunteer slots left", domain.ErrCapacityExceeded)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"application_id": applicationID,
		"mission_id":     missionID,
		"decision":       decision,
		"ngo_id":         p.UserID,
	}).Info("application decided")

	return s.appRepo.GetByID(ctx, applicationID)
}

// Withdraw lets a volunteer retract a PENDING or ACCEPTED application.
// Withdrawing an ACCEPTED application frees its slot in the same transaction.
func (s *ApplicationService) Withdraw(ctx context.Context, p domain.Principal, applicationID uint) (*models.Application, error) {
	var prior domain.ApplicationStatus
	var missionID uint

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		app, err := s.appRepo.GetByID(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("get application %d: %w", applicationID, err)
		}
		if !domain.CanWithdraw(p, app.VolunteerID) {
			return fmt.Errorf("%w: only the applicant can withdraw an application", domain.ErrForbidden)
		}

		prior = app.CurrentStatus()
		missionID = app.MissionID
		if !prior.CanTransitionTo(domain.ApplicationWithdrawn) {
			return fmt.Errorf("%w: application is %s and cannot be withdrawn", domain.ErrInvalidState, app.Status)
		}

		ok, err := s.appRepo.Transition(ctx, app.ID, string(prior), string(domain.ApplicationWithdrawn), nil)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: application was modified concurrently", domain.ErrInvalidState)
		}

		if prior == domain.ApplicationAccepted {
			ok, err := s.missionRepo.DecrementAccepted(ctx, app.MissionID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("mission %d accepted counter is already zero", app.MissionID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"application_id": applicationID,
		"mission_id":     missionID,
		"from_status":    prior,
		"volunteer_id":   p.UserID,
	}).Info("application withdrawn")

	return s.appRepo.GetByID(ctx, applicationID)
}

// Get returns an application visible to p
func (s *ApplicationService) Get(ctx context.Context, p domain.Principal, applicationID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", applicationID, err)
	}

	var creatorID uint
	if app.Mission != nil {
		creatorID = app.Mission.CreatorID
	}
	if !domain.CanViewApplication(p, app.VolunteerID, creatorID) {
		return nil, fmt.Errorf("%w: not allowed to view this application", domain.ErrForbidden)
	}
	return app, nil
}

// ListMine lists the calling volunteer's applications
func (s *ApplicationService) ListMine(ctx context.Context, p domain.Principal, input *ListApplicationsInput) (*ApplicationListOutput, error) {
	if p.Role != domain.RoleVolunteer {
		return nil, fmt.Errorf("%w: only volunteers have applications", domain.ErrForbidden)
	}
	return s.list(ctx, repositories.ApplicationFilter{VolunteerID: p.UserID}, input)
}

// ListForMission lists applications to a mission owned by the caller
func (s *ApplicationService) ListForMission(ctx context.Context, p domain.Principal, missionID uint, input *ListApplicationsInput) (*ApplicationListOutput, error) {
	mission, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("get mission %d: %w", missionID, err)
	}
	if !domain.CanManageMission(p, mission.CreatorID) {
		return nil, fmt.Errorf("%w: only the mission owner can list its applications", domain.ErrForbidden)
	}
	return s.list(ctx, repositories.ApplicationFilter{MissionID: missionID}, input)
}

func (s *ApplicationService) list(ctx context.Context, filter repositories.ApplicationFilter, input *ListApplicationsInput) (*ApplicationListOutput, error) {
	if input.Status != "" {
		status := domain.ApplicationStatus(strings.ToUpper(input.Status))
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown application status %q", domain.ErrValidation, input.Status)
		}
		filter.Status = string(status)
	}

	params := pagination.NewParams(input.Page, input.Limit)
	filter.Offset = params.Offset
	filter.Limit = params.Limit

	apps, total, err := s.appRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ApplicationListOutput{
		Applications: apps,
		Pagination:   pagination.GetMeta(params, total),
	}, nil
}
