package config

import (
	"errors"
	"fmt"
	"time"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/logger"
	"volunteer-connect/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultSeedAdminPassword = "admin123456"

// demoPassword is shared by the demo NGO and volunteer accounts
const demoPassword = "demo12345"

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run seeds the bootstrap admin and, when demo is set, a sample NGO with
// one mission and a sample volunteer. Existing accounts are left untouched.
func (s *Seeder) Run(demo bool) error {
	if s.cfg.IsProd() && s.cfg.Seed.AdminPassword == defaultSeedAdminPassword {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be set in prod mode")
	}
	if s.cfg.IsProd() && demo {
		return fmt.Errorf("demo data cannot be seeded in prod mode")
	}

	if err := s.seedAdmin(); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if !demo {
		return nil
	}
	if err := s.seedDemo(); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return nil
}

func (s *Seeder) seedAdmin() error {
	created, err := s.ensureUser(&models.User{
		Email:      s.cfg.Seed.AdminEmail,
		Role:       string(domain.RoleAdmin),
		IsActive:   true,
		IsVerified: true,
	}, s.cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"email":   s.cfg.Seed.AdminEmail,
		"created": created != nil,
	}).Info("admin account ready")
	return nil
}

func (s *Seeder) seedDemo() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		seeder := &Seeder{db: tx, cfg: s.cfg}

		ngo, err := seeder.ensureUser(&models.User{
			Email:      "ngo@demo.volunteerconnect.org",
			Role:       string(domain.RoleNGO),
			IsActive:   true,
			IsVerified: true,
			NGOProfile: &models.NGOProfile{
				OrganizationName: "Green Coast Collective",
				Description:      "Coastal clean-ups and environmental education.",
				Location:         "Lisbon",
				FocusAreas:       datatypes.JSONSlice[string]{"Environment", "Education"},
				IsVerified:       true,
			},
		}, demoPassword)
		if err != nil {
			return err
		}

		if _, err := seeder.ensureUser(&models.User{
			Email:    "volunteer@demo.volunteerconnect.org",
			Role:     string(domain.RoleVolunteer),
			IsActive: true,
			VolunteerProfile: &models.VolunteerProfile{
				FirstName: "Alex",
				LastName:  "Doe",
				Location:  "Lisbon",
				Interests: datatypes.JSONSlice[string]{"Environment"},
				Skills:    datatypes.JSONSlice[string]{"First aid"},
			},
		}, demoPassword); err != nil {
			return err
		}

		// missions are only seeded together with a freshly created NGO
		if ngo == nil {
			return nil
		}

		mission := &models.Mission{
			Title:            "Beach cleanup at Carcavelos",
			Description:      "Help us clear litter from the beach before the summer season.",
			Category:         "Environment",
			Location:         "Lisbon",
			Date:             time.Now().UTC().AddDate(0, 0, 14).Truncate(time.Hour),
			Duration:         4,
			VolunteersNeeded: 10,
			Status:           string(domain.MissionActive),
			SkillsRequired:   datatypes.JSONSlice[string]{},
			Requirements:     "Bring gloves and water.",
			CreatorID:        ngo.ID,
		}
		if err := tx.Omit("Creator").Create(mission).Error; err != nil {
			return err
		}

		logger.Log.WithField("mission_id", mission.ID).Info("demo mission seeded")
		return nil
	})
}

// ensureUser creates u with the given password unless the email is taken.
// It returns the created user, or nil when it already existed.
func (s *Seeder) ensureUser(u *models.User, plain string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}
	u.Password = hash

	if err := s.db.Create(u).Error; err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{"email": u.Email, "role": u.Role}).Info("user seeded")
	return u, nil
}
