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
	"gorm.io/datatypes"
)

// MissionService handles mission business logic
type MissionService struct {
	tx          repositories.Transactor
	missionRepo repositories.MissionRepository
	appRepo     repositories.ApplicationRepository
}

// NewMissionService creates a new mission service
func NewMissionService(
	tx repositories.Transactor,
	missionRepo repositories.MissionRepository,
	appRepo repositories.ApplicationRepository,
) *MissionService {
	return &MissionService{
		tx:          tx,
		missionRepo: missionRepo,
		appRepo:     appRepo,
	}
}

// CreateMissionInput represents create mission input
type CreateMissionInput struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	Date             time.Time `json:"date"`
	Duration         int       `json:"duration"`
	VolunteersNeeded int       `json:"volunteers_needed"`
	Status           string    `json:"status"`
	SkillsRequired   []string  `json:"skills_required"`
	Requirements     string    `json:"requirements"`
}

// UpdateMissionInput is a merge patch: nil fields are left untouched
type UpdateMissionInput struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Category         *string    `json:"category"`
	Location         *string    `json:"location"`
	Date             *time.Time `json:"date"`
	Duration         *int       `json:"duration"`
	VolunteersNeeded *int       `json:"volunteers_needed"`
	Status           *string    `json:"status"`
	SkillsRequired   *[]string  `json:"skills_required"`
	Requirements     *string    `json:"requirements"`
}

// ListMissionsInput represents list missions input
type ListMissionsInput struct {
	Category string
	Location string
	Status   string
	Search   string
	Page     int
	Limit    int
}

// MissionListOutput represents list missions output
type MissionListOutput struct {
	Missions   []*models.MissionResponse `json:"missions"`
	Pagination *pagination.Meta          `json:"pagination"`
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return nil
}

func cleanList(values []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (in *CreateMissionInput) validate() error {
	for _, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"description", in.Description},
		{"category", in.Category},
		{"location", in.Location},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if in.Duration <= 0 {
		return fmt.Errorf("%w: duration must be greater than 0", domain.ErrValidation)
	}
	if in.VolunteersNeeded < 1 {
		return fmt.Errorf("%w: volunteers_needed must be at least 1", domain.ErrValidation)
	}

	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = string(domain.MissionActive)
	}
	if s := domain.MissionStatus(in.Status); s != domain.MissionActive && s != domain.MissionDraft {
		return fmt.Errorf("%w: a new mission must be DRAFT or ACTIVE", domain.ErrValidation)
	}
	return nil
}

// Create posts a new mission owned by the calling NGO
func (s *MissionService) Create(ctx context.Context, p domain.Principal, input *CreateMissionInput) (*models.MissionResponse, error) {
	if !domain.CanCreateMission(p) {
		return nil, fmt.Errorf("%w: only NGOs can create missions", domain.ErrForbidden)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	mission := &models.Mission{
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		Category:         strings.TrimSpace(input.Category),
		Location:         strings.TrimSpace(input.Location),
		Date:             input.Date.UTC(),
		Duration:         input.Duration,
		VolunteersNeeded: input.VolunteersNeeded,
		Status:           input.Status,
		SkillsRequired:   cleanList(input.SkillsRequired),
		Requirements:     strings.TrimSpace(input.Requirements),
		CreatorID:        p.UserID,
	}

	if err := s.missionRepo.Create(ctx, mission); err != nil {
		return nil, fmt.Errorf("create mission: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"mission_id": mission.ID,
		"ngo_id":     p.UserID,
		"status":     mission.Status,
	}).Info("mission created")

	return s.response(ctx, mission.ID)
}

// updates converts the patch to column updates
func (in *UpdateMissionInput) updates() (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	text := []struct {
		column string
		value  *string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"category", in.Category},
		{"location", in.Location},
	}
	for _, f := range text {
		if f.value == nil {
			continue
		}
		if err := required(f.column, *f.value); err != nil {
			return nil, err
		}
		updates[f.column] = strings.TrimSpace(*f.value)
	}

	if in.Requirements != nil {
		updates["requirements"] = strings.TrimSpace(*in.Requirements)
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return nil, fmt.Errorf("%w: date is required", domain.ErrValidation)
		}
		updates["date"] = in.Date.UTC()
	}
	if in.Duration != nil {
		if *in.Duration <= 0 {
			return nil, fmt.Errorf("%w: duration must be greater than 0", domain.ErrValidation)
		}
		updates["duration"] = *in.Duration
	}
	if in.VolunteersNeeded != nil {
		if *in.VolunteersNeeded < 1 {
			return nil, fmt.Errorf("%w: volunteers_needed must be at least 1", domain.ErrValidation)
		}
		updates["volunteers_needed"] = *in.VolunteersNeeded
	}
	if in.Status != nil {
		status := domain.MissionStatus(strings.ToUpper(strings.TrimSpace(*in.Status)))
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown mission status %q", domain.ErrValidation, *in.Status)
		}
		updates["status"] = string(status)
	}
	if in.SkillsRequired != nil {
		updates["skills_required"] = cleanList(*in.SkillsRequired)
	}

	return updates, nil
}

// Update merge-patches a mission owned by the caller
func (s *MissionService) Update(ctx context.Context, p domain.Principal, missionID uint, input *UpdateMissionInput) (*models.MissionResponse, error) {
	mission, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("get mission %d: %w", missionID, err)
	}
	if !domain.CanManageMission(p, mission.CreatorID) {
		return nil, fmt.Errorf("%w: only the mission owner can update it", domain.ErrForbidden)
	}

	updates, err := input.updates()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.response(ctx, missionID)
	}

	ok, err := s.missionRepo.Update(ctx, missionID, updates, input.VolunteersNeeded)
	if err != nil {
		return nil, fmt.Errorf("update mission %d: %w", missionID, err)
	}
	if !ok {
		if input.VolunteersNeeded != nil {
			return nil, fmt.Errorf("%w: volunteers_needed cannot be lower than the %d volunteers already accepted",
				domain.ErrInvalidState, mission.VolunteersAccepted)
		}
		return nil, fmt.Errorf("update mission %d: %w", missionID, domain.ErrNotFound)
	}

	logger.Log.WithFields(logrus.Fields{"mission_id": missionID, "ngo_id": p.UserID}).Info("mission updated")
	return s.response(ctx, missionID)
}

// Delete hard deletes a mission that no application references
func (s *MissionService) Delete(ctx context.Context, p domain.Principal, missionID uint) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		mission, err := s.missionRepo.GetByID(ctx, missionID)
		if err != nil {
			return fmt.Errorf("get mission %d: %w", missionID, err)
		}
		if !domain.CanManageMission(p, mission.CreatorID) {
			return fmt.Errorf("%w: only the mission owner can delete it", domain.ErrForbidden)
		}

		count, err := s.appRepo.CountByMission(ctx, missionID, "")
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: mission has %d applications, archive it instead", domain.ErrConflict, count)
		}

		return s.missionRepo.Delete(ctx, missionID)
	})
	if err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{"mission_id": missionID, "ngo_id": p.UserID}).Info("mission deleted")
	return nil
}

// Archive cancels a mission and keeps its applications
func (s *MissionService) Archive(ctx context.Context, p domain.Principal, missionID uint) (*models.MissionResponse, error) {
	mission, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("get mission %d: %w", missionID, err)
	}
	if !domain.CanManageMission(p, mission.CreatorID) {
		return nil, fmt.Errorf("%w: only the mission owner can archive it", domain.ErrForbidden)
	}
	if domain.MissionStatus(mission.Status) == domain.MissionCancelled {
		return nil, fmt.Errorf("%w: mission is already archived", domain.ErrInvalidState)
	}

	updates := map[string]interface{}{"status": string(domain.MissionCancelled)}
	if _, err := s.missionRepo.Update(ctx, missionID, updates, nil); err != nil {
		return nil, fmt.Errorf("archive mission %d: %w", missionID, err)
	}

	logger.Log.WithFields(logrus.Fields{"mission_id": missionID, "ngo_id": p.UserID}).Info("mission archived")
	return s.response(ctx, missionID)
}

// List returns the public mission catalogue, ACTIVE missions by default
func (s *MissionService) List(ctx context.Context, input *ListMissionsInput) (*MissionListOutput, error) {
	status := strings.ToUpper(strings.TrimSpace(input.Status))
	if status == "" {
		status = string(domain.MissionActive)
	}

	return s.list(ctx, repositories.MissionFilter{
		Category: strings.TrimSpace(input.Category),
		Location: input.Location,
		Search:   input.Search,
		Status:   status,
	}, input)
}

// ListMine returns the calling NGO's missions, any status by default
func (s *MissionService) ListMine(ctx context.Context, p domain.Principal, input *ListMissionsInput) (*MissionListOutput, error) {
	if p.Role != domain.RoleNGO {
		return nil, fmt.Errorf("%w: only NGOs own missions", domain.ErrForbidden)
	}

	return s.list(ctx, repositories.MissionFilter{
		Status:    strings.ToUpper(strings.TrimSpace(input.Status)),
		CreatorID: p.UserID,
	}, input)
}

func (s *MissionService) list(ctx context.Context, filter repositories.MissionFilter, input *ListMissionsInput) (*MissionListOutput, error) {
	if filter.Status != "" && !domain.MissionStatus(filter.Status).IsValid() {
		return nil, fmt.Errorf("%w: unknown mission status %q", domain.ErrValidation, filter.Status)
	}

	params := pagination.NewParams(input.Page, input.Limit)
	filter.Offset = params.Offset
	filter.Limit = params.Limit

	missions, total, err := s.missionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*models.MissionResponse, 0, len(missions))
	for _, m := range missions {
		out = append(out, m.ToResponse())
	}

	return &MissionListOutput{
		Missions:   out,
		Pagination: pagination.GetMeta(params, total),
	}, nil
}

// GetByID returns a mission with its organization and application count
func (s *MissionService) GetByID(ctx context.Context, missionID uint) (*models.MissionResponse, error) {
	return s.response(ctx, missionID)
}

func (s *MissionService) response(ctx context.Context, missionID uint) (*models.MissionResponse, error) {
	mission, err := s.missionRepo.GetByIDWithCreator(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("get mission %d: %w", missionID, err)
	}

	count, err := s.appRepo.CountByMission(ctx, missionID, "")
	if err != nil {
		return nil, err
	}

	resp := mission.ToResponse()
	resp.ApplicationsCount = &count
	return resp, nil
}
