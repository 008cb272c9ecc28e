package repositories

import (
	"context"

	"volunteer-connect/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user, and any profile attached to it
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(conn(ctx, r.db).Create(user).Error)
}

// GetByID gets a user by ID with whichever profile exists
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).
		Preload("VolunteerProfile").
		Preload("NGOProfile").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).
		Preload("VolunteerProfile").
		Preload("NGOProfile").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// SetActive activates or deactivates a user
func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.setFlag(ctx, id, "is_active", active)
}

// SetVerified marks a user as verified or not
func (r *userRepository) SetVerified(ctx context.Context, id uint, verified bool) error {
	return r.setFlag(ctx, id, "is_verified", verified)
}

func (r *userRepository) setFlag(ctx context.Context, id uint, column string, value bool) error {
	result := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
