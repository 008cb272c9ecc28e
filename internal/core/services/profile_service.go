package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/adapters/persistence/repositories"
	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ProfileService handles volunteer and NGO profiles
type ProfileService struct {
	tx          repositories.Transactor
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(
	tx repositories.Transactor,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
) *ProfileService {
	return &ProfileService{
		tx:          tx,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// VolunteerProfileInput is a merge patch of a volunteer profile.
// total_hours and rating are not part of it.
type VolunteerProfileInput struct {
	FirstName    *string   `json:"first_name"`
	LastName     *string   `json:"last_name"`
	Phone        *string   `json:"phone"`
	Location     *string   `json:"location"`
	Bio          *string   `json:"bio"`
	Interests    *[]string `json:"interests"`
	Skills       *[]string `json:"skills"`
	Availability *string   `json:"availability"`
}

// NGOProfileInput is a merge patch of an NGO profile.
// is_verified and registration_number are not part of it.
type NGOProfileInput struct {
	OrganizationName *string   `json:"organization_name"`
	Description      *string   `json:"description"`
	MissionStatement *string   `json:"mission_statement"`
	Vision           *string   `json:"vision"`
	Website          *string   `json:"website"`
	Phone            *string   `json:"phone"`
	Location         *string   `json:"location"`
	FocusAreas       *[]string `json:"focus_areas"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// GetMe returns the user with whichever profile exists
func (s *ProfileService) GetMe(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user.ToResponse(), nil
}

// UpsertVolunteerProfile creates the caller's volunteer profile or patches it
func (s *ProfileService) UpsertVolunteerProfile(ctx context.Context, p domain.Principal, input *VolunteerProfileInput) (*models.VolunteerProfile, error) {
	if p.Role != domain.RoleVolunteer {
		return nil, fmt.Errorf("%w: only volunteers have a volunteer profile", domain.ErrForbidden)
	}

	var profile *models.VolunteerProfile
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		profile, err = s.profileRepo.GetVolunteerByUserID(ctx, p.UserID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			profile = &models.VolunteerProfile{UserID: p.UserID}
		case err != nil:
			return err
		}

		setString(&profile.FirstName, input.FirstName)
		setString(&profile.LastName, input.LastName)
		setString(&profile.Phone, input.Phone)
		setString(&profile.Location, input.Location)
		setString(&profile.Bio, input.Bio)
		setString(&profile.Availability, input.Availability)
		if input.Interests != nil {
			profile.Interests = cleanList(*input.Interests)
		}
		if input.Skills != nil {
			profile.Skills = cleanList(*input.Skills)
		}

		if profile.FirstName == "" {
			return fmt.Errorf("%w: first_name is required", domain.ErrValidation)
		}
		return s.profileRepo.SaveVolunteer(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", p.UserID).Info("volunteer profile saved")
	return profile, nil
}

// UpsertNGOProfile creates the caller's NGO profile or patches it
func (s *ProfileService) UpsertNGOProfile(ctx context.Context, p domain.Principal, input *NGOProfileInput) (*models.NGOProfile, error) {
	if p.Role != domain.RoleNGO {
		return nil, fmt.Errorf("%w: only NGOs have an organization profile", domain.ErrForbidden)
	}

	var profile *models.NGOProfile
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		profile, err = s.profileRepo.GetNGOByUserID(ctx, p.UserID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			profile = &models.NGOProfile{UserID: p.UserID}
		case err != nil:
			return err
		}

		setString(&profile.OrganizationName, input.OrganizationName)
		setString(&profile.Description, input.Description)
		setString(&profile.MissionStatement, input.MissionStatement)
		setString(&profile.Vision, input.Vision)
		setString(&profile.Website, input.Website)
		setString(&profile.Phone, input.Phone)
		setString(&profile.Location, input.Location)
		if input.FocusAreas != nil {
			profile.FocusAreas = cleanList(*input.FocusAreas)
		}

		if profile.OrganizationName == "" {
			return fmt.Errorf("%w: organization_name is required", domain.ErrValidation)
		}
		return s.profileRepo.SaveNGO(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", p.UserID).Info("ngo profile saved")
	return profile, nil
}

// GetNGO returns the public profile of an NGO user
func (s *ProfileService) GetNGO(ctx context.Context, userID uint) (*models.NGOPublic, error) {
	profile, err := s.profileRepo.GetNGOByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get ngo %d: %w", userID, err)
	}
	return profile.ToPublic(), nil
}

// SetNGOVerified marks an NGO and its user as verified or unverified
func (s *ProfileService) SetNGOVerified(ctx context.Context, p domain.Principal, ngoUserID uint, verified bool) (*models.NGOPublic, error) {
	if !domain.CanVerifyNGO(p) {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.profileRepo.SetNGOVerified(ctx, ngoUserID, verified); err != nil {
			return fmt.Errorf("verify ngo %d: %w", ngoUserID, err)
		}
		return s.userRepo.SetVerified(ctx, ngoUserID, verified)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"ngo_id":   ngoUserID,
		"admin_id": p.UserID,
		"verified": verified,
	}).Info("ngo verification changed")

	return s.GetNGO(ctx, ngoUserID)
}
