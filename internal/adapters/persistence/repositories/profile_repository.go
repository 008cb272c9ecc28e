package repositories

import (
	"context"

	"volunteer-connect/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// profileRepository implements ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetVolunteerByUserID gets the volunteer profile owned by userID
func (r *profileRepository) GetVolunteerByUserID(ctx context.Context, userID uint) (*models.VolunteerProfile, error) {
	var profile models.VolunteerProfile
	if err := conn(ctx, r.db).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// SaveVolunteer inserts the profile when it has no ID, otherwise updates it.
// total_hours and rating are never written here.
func (r *profileRepository) SaveVolunteer(ctx context.Context, profile *models.VolunteerProfile) error {
	return translate(conn(ctx, r.db).Omit("TotalHours", "Rating").Save(profile).Error)
}

// GetNGOByUserID gets the NGO profile owned by userID
func (r *profileRepository) GetNGOByUserID(ctx context.Context, userID uint) (*models.NGOProfile, error) {
	var profile models.NGOProfile
	if err := conn(ctx, r.db).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// SaveNGO inserts the profile when it has no ID, otherwise updates it.
// is_verified is never written here.
func (r *profileRepository) SaveNGO(ctx context.Context, profile *models.NGOProfile) error {
	return translate(conn(ctx, r.db).Omit("IsVerified").Save(profile).Error)
}

// SetNGOVerified toggles the verification flag of an NGO profile
func (r *profileRepository) SetNGOVerified(ctx context.Context, userID uint, verified bool) error {
	result := conn(ctx, r.db).
		Model(&models.NGOProfile{}).
		Where("user_id = ?", userID).
		Update("is_verified", verified)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
