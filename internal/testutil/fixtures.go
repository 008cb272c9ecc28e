package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every fixture user
const DefaultPassword = "password123"

var seq atomic.Int64

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *gorm.DB
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *gorm.DB {
	return f.db
}

func (f *Fixtures) user(role domain.Role) *models.User {
	f.t.Helper()

	hash, err := password.Hash(DefaultPassword)
	require.NoError(f.t, err)

	return &models.User{
		Email:    fmt.Sprintf("%s-%d@test.com", strings.ToLower(string(role)), seq.Add(1)),
		Password: hash,
		Role:     string(role),
		IsActive: true,
	}
}

// CreateVolunteer creates an active volunteer with a profile
func (f *Fixtures) CreateVolunteer() *models.User {
	f.t.Helper()

	u := f.user(domain.RoleVolunteer)
	u.VolunteerProfile = &models.VolunteerProfile{FirstName: "Test", LastName: "Volunteer"}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

// CreateNGO creates an active NGO user with an organization profile
func (f *Fixtures) CreateNGO() *models.User {
	f.t.Helper()

	u := f.user(domain.RoleNGO)
	u.NGOProfile = &models.NGOProfile{
		OrganizationName: "Test Org",
		Description:      "Helping people",
		Location:         "Lisbon",
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

// CreateAdmin creates an active admin user
func (f *Fixtures) CreateAdmin() *models.User {
	f.t.Helper()

	u := f.user(domain.RoleAdmin)
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

// MissionOption customizes a fixture mission
type MissionOption func(*models.Mission)

// WithCapacity sets volunteers_needed
func WithCapacity(n int) MissionOption {
	return func(m *models.Mission) { m.VolunteersNeeded = n }
}

// WithDate sets the mission date
func WithDate(d time.Time) MissionOption {
	return func(m *models.Mission) { m.Date = d }
}

// WithStatus sets the mission status
func WithStatus(s domain.MissionStatus) MissionOption {
	return func(m *models.Mission) { m.Status = string(s) }
}

// WithFields sets title, category and location
func WithFields(title, category, location string) MissionOption {
	return func(m *models.Mission) {
		m.Title = title
		m.Category = category
		m.Location = location
	}
}

// CreateMission creates an ACTIVE mission a week from now owned by creator
func (f *Fixtures) CreateMission(creator *models.User, opts ...MissionOption) *models.Mission {
	f.t.Helper()

	m := &models.Mission{
		Title:            "Beach cleanup",
		Description:      "Collect plastic on the shore",
		Category:         "Environment",
		Location:         "Lisbon",
		Date:             time.Now().Add(7 * 24 * time.Hour).UTC(),
		Duration:         3,
		VolunteersNeeded: 2,
		Status:           string(domain.MissionActive),
		CreatorID:        creator.ID,
	}
	for _, opt := range opts {
		opt(m)
	}

	require.NoError(f.t, f.db.Omit("Creator").Create(m).Error)
	return m
}

// Principal returns the principal of u
func Principal(u *models.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Email: u.Email, Role: domain.Role(u.Role)}
}

// AcceptedCount counts ACCEPTED applications for a mission
func (f *Fixtures) AcceptedCount(missionID uint) int64 {
	f.t.Helper()

	var n int64
	require.NoError(f.t, f.db.Model(&models.Application{}).
		Where("mission_id = ? AND status = ?", missionID, string(domain.ApplicationAccepted)).
		Count(&n).Error)
	return n
}

// ReloadMission reads a mission back from the database
func (f *Fixtures) ReloadMission(id uint) *models.Mission {
	f.t.Helper()

	var m models.Mission
	require.NoError(f.t, f.db.First(&m, id).Error)
	return &m
}
