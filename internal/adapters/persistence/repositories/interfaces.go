package repositories

import (
	"context"
	"time"

	"volunteer-connect/internal/adapters/persistence/models"
)

// Every repository returns domain.ErrNotFound for missing rows and
// domain.ErrConflict for unique violations, wrapped with the storage error.

// Transactor runs a unit of work atomically. Repository calls made with the
// ctx passed to fn join the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetActive(ctx context.Context, id uint, active bool) error
	SetVerified(ctx context.Context, id uint, verified bool) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ProfileRepository defines volunteer and NGO profile access
type ProfileRepository interface {
	GetVolunteerByUserID(ctx context.Context, userID uint) (*models.VolunteerProfile, error)
	SaveVolunteer(ctx context.Context, profile *models.VolunteerProfile) error
	GetNGOByUserID(ctx context.Context, userID uint) (*models.NGOProfile, error)
	SaveNGO(ctx context.Context, profile *models.NGOProfile) error
	SetNGOVerified(ctx context.Context, userID uint, verified bool) error
}

// MissionFilter narrows a mission listing. Zero values mean "no filter".
type MissionFilter struct {
	Category  string
	Location  string
	Status    string
	Search    string
	CreatorID uint
	Offset    int
	Limit     int
}

// MissionRepository defines mission repository interface
type MissionRepository interface {
	Create(ctx context.Context, mission *models.Mission) error
	GetByID(ctx context.Context, id uint) (*models.Mission, error)
	GetByIDWithCreator(ctx context.Context, id uint) (*models.Mission, error)
	List(ctx context.Context, filter MissionFilter) ([]*models.Mission, int64, error)
	// Update applies updates to the mission. When maxAccepted is non-nil the
	// write only happens if volunteers_accepted <= *maxAccepted; the bool
	// result reports whether a row matched.
	Update(ctx context.Context, id uint, updates map[string]interface{}, maxAccepted *int) (bool, error)
	Delete(ctx context.Context, id uint) error
	// IncrementAccepted adds one accepted volunteer only while capacity remains
	IncrementAccepted(ctx context.Context, id uint) (bool, error)
	// DecrementAccepted removes one accepted volunteer only while the counter is positive
	DecrementAccepted(ctx context.Context, id uint) (bool, error)
	CompleteStarted(ctx context.Context, before time.Time) (int64, error)
}

// ApplicationFilter narrows an application listing
type ApplicationFilter struct {
	MissionID   uint
	VolunteerID uint
	Status      string
	Offset      int
	Limit       int
}

// ApplicationRepository defines application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	Exists(ctx context.Context, missionID, volunteerID uint) (bool, error)
	// Transition moves an application from one status to another with the
	// given extra column updates. It reports false when the row was no
	// longer in status from.
	Transition(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error)
	List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, int64, error)
	CountByMission(ctx context.Context, missionID uint, status string) (int64, error)
}
