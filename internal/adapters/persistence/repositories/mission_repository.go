package repositories

import (
	"context"
	"strings"
	"time"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/core/domain"

	"gorm.io/gorm"
)

// missionRepository implements MissionRepository interface
type missionRepository struct {
	db *gorm.DB
}

// NewMissionRepository creates a new mission repository
func NewMissionRepository(db *gorm.DB) MissionRepository {
	return &missionRepository{db: db}
}

// Create creates a new mission
func (r *missionRepository) Create(ctx context.Context, mission *models.Mission) error {
	return translate(conn(ctx, r.db).Create(mission).Error)
}

// GetByID gets a mission by ID
func (r *missionRepository) GetByID(ctx context.Context, id uint) (*models.Mission, error) {
	var mission models.Mission
	if err := conn(ctx, r.db).First(&mission, id).Error; err != nil {
		return nil, translate(err)
	}
	return &mission, nil
}

// GetByIDWithCreator gets a mission with its creator's NGO profile
func (r *missionRepository) GetByIDWithCreator(ctx context.Context, id uint) (*models.Mission, error) {
	var mission models.Mission
	err := conn(ctx, r.db).
		Preload("Creator.NGOProfile").
		First(&mission, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &mission, nil
}

// List lists missions matching filter, soonest first
func (r *missionRepository) List(ctx context.Context, filter MissionFilter) ([]*models.Mission, int64, error) {
	var missions []*models.Mission
	var total int64

	query := r.filtered(ctx, filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.filtered(ctx, filter).
		Preload("Creator.NGOProfile").
		Order("date ASC").
		Order("id ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&missions).Error

	return missions, total, err
}

// filtered builds the WHERE clause shared by the count and page queries
func (r *missionRepository) filtered(ctx context.Context, filter MissionFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.Mission{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatorID != 0 {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", likePattern(filter.Location))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	return query
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// Update applies a partial update, optionally guarded on the accepted counter
func (r *missionRepository) Update(ctx context.Context, id uint, updates map[string]interface{}, maxAccepted *int) (bool, error) {
	query := conn(ctx, r.db).Model(&models.Mission{}).Where("id = ?", id)
	if maxAccepted != nil {
		query = query.Where("volunteers_accepted <= ?", *maxAccepted)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete hard deletes a mission
func (r *missionRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.Mission{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// IncrementAccepted is a single conditional UPDATE, so two concurrent
// callers can never both take the last slot.
func (r *missionRepository) IncrementAccepted(ctx context.Context, id uint) (bool, error) {
	result := conn(ctx, r.db).
		Model(&models.Mission{}).
		Where("id = ? AND volunteers_accepted < volunteers_needed", id).
		UpdateColumn("volunteers_accepted", gorm.Expr("volunteers_accepted + 1"))
	return result.RowsAffected == 1, result.Error
}

// DecrementAccepted releases one slot
func (r *missionRepository) DecrementAccepted(ctx context.Context, id uint) (bool, error) {
	result := conn(ctx, r.db).
		Model(&models.Mission{}).
		Where("id = ? AND volunteers_accepted > 0", id).
		UpdateColumn("volunteers_accepted", gorm.Expr("volunteers_accepted - 1"))
	return result.RowsAffected == 1, result.Error
}

// CompleteStarted moves ACTIVE missions dated before the cutoff to COMPLETED
func (r *missionRepository) CompleteStarted(ctx context.Context, before time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Model(&models.Mission{}).
		Where("status = ? AND date < ?", string(domain.MissionActive), before).
		Update("status", string(domain.MissionCompleted))
	return result.RowsAffected, result.Error
}
