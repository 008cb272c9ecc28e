package repositories

import (
	"context"

	"volunteer-connect/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts an application. A second application for the same
// (mission, volunteer) pair fails with domain.ErrConflict.
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return translate(conn(ctx, r.db).Omit("Mission", "Volunteer").Create(app).Error)
}

// GetByID gets an application with its mission
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := conn(ctx, r.db).
		Preload("Mission").
		First(&app, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// Exists checks whether the volunteer already applied to the mission
func (r *applicationRepository) Exists(ctx context.Context, missionID, volunteerID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&models.Application{}).
		Where("mission_id = ? AND volunteer_id = ?", missionID, volunteerID).
		Count(&count).Error
	return count > 0, err
}

// Transition is a compare-and-set on status
func (r *applicationRepository) Transition(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": to}
	for k, v := range updates {
		values[k] = v
	}

	result := conn(ctx, r.db).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// List lists applications matching filter, newest first
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.filtered(ctx, filter)
	if filter.VolunteerID != 0 {
		query = query.Preload("Mission.Creator.NGOProfile")
	}
	if filter.MissionID != 0 {
		query = query.Preload("Volunteer.VolunteerProfile")
	}

	err := query.
		Order("applied_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&apps).Error

	return apps, total, err
}

func (r *applicationRepository) filtered(ctx context.Context, filter ApplicationFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.Application{})
	if filter.MissionID != 0 {
		query = query.Where("mission_id = ?", filter.MissionID)
	}
	if filter.VolunteerID != 0 {
		query = query.Where("volunteer_id = ?", filter.VolunteerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// CountByMission counts applications for a mission, optionally by status
func (r *applicationRepository) CountByMission(ctx context.Context, missionID uint, status string) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&models.Application{}).Where("mission_id = ?", missionID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

