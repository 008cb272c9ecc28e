package models

import (
	"time"

	"volunteer-connect/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table. Users are deactivated, never deleted.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	Role       string    `gorm:"size:20;not null;index" json:"role"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	IsVerified bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	VolunteerProfile *VolunteerProfile `gorm:"foreignKey:UserID" json:"volunteer_profile,omitempty"`
	NGOProfile       *NGOProfile       `gorm:"foreignKey:UserID" json:"ngo_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID               uint              `json:"id"`
	Email            string            `json:"email"`
	Role             string            `json:"role"`
	IsActive         bool              `json:"is_active"`
	IsVerified       bool              `json:"is_verified"`
	DisplayName      string            `json:"display_name,omitempty"`
	VolunteerProfile *VolunteerProfile `json:"volunteer_profile,omitempty"`
	NGOProfile       *NGOProfile       `json:"ngo_profile,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Role:             u.Role,
		IsActive:         u.IsActive,
		IsVerified:       u.IsVerified,
		DisplayName:      u.DisplayName(),
		VolunteerProfile: u.VolunteerProfile,
		NGOProfile:       u.NGOProfile,
		CreatedAt:        u.CreatedAt,
	}
}

// DisplayName returns the profile name when a profile is loaded
func (u *User) DisplayName() string {
	switch {
	case u.NGOProfile != nil:
		return u.NGOProfile.OrganizationName
	case u.VolunteerProfile != nil:
		return u.VolunteerProfile.FullName()
	}
	return ""
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Profile Tables
// ============================================================

// VolunteerProfile holds matching attributes for a VOLUNTEER user
type VolunteerProfile struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	UserID       uint                        `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName    string                      `gorm:"size:100" json:"first_name"`
	LastName     string                      `gorm:"size:100" json:"last_name"`
	Phone        string                      `gorm:"size:30" json:"phone"`
	Location     string                      `gorm:"size:200" json:"location"`
	Bio          string                      `gorm:"type:text" json:"bio"`
	Interests    datatypes.JSONSlice[string] `json:"interests"`
	Skills       datatypes.JSONSlice[string] `json:"skills"`
	Availability string                      `gorm:"size:200" json:"availability"`
	TotalHours   float64                     `gorm:"default:0" json:"total_hours"`
	Rating       float64                     `gorm:"default:0" json:"rating"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (VolunteerProfile) TableName() string {
	return "volunteer_profiles"
}

// FullName joins first and last name
func (p *VolunteerProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// NGOProfile holds organization attributes for an NGO user
type NGOProfile struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	UserID             uint                        `gorm:"uniqueIndex;not null" json:"user_id"`
	OrganizationName   string                      `gorm:"size:200;not null" json:"organization_name"`
	Description        string                      `gorm:"type:text" json:"description"`
	MissionStatement   string                      `gorm:"type:text" json:"mission_statement"`
	Vision             string                      `gorm:"type:text" json:"vision"`
	Website            string                      `gorm:"size:255" json:"website"`
	Phone              string                      `gorm:"size:30" json:"phone"`
	Location           string                      `gorm:"size:200" json:"location"`
	RegistrationNumber string                      `gorm:"size:100" json:"registration_number"`
	FocusAreas         datatypes.JSONSlice[string] `json:"focus_areas"`
	IsVerified         bool                        `gorm:"default:false" json:"is_verified"`
	CreatedAt          time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NGOProfile) TableName() string {
	return "ngo_profiles"
}

// NGOPublic is the subset of an NGO profile shown next to its missions
type NGOPublic struct {
	UserID           uint     `json:"user_id"`
	OrganizationName string   `json:"organization_name"`
	Description      string   `json:"description"`
	Website          string   `json:"website,omitempty"`
	Location         string   `json:"location,omitempty"`
	FocusAreas       []string `json:"focus_areas"`
	IsVerified       bool     `json:"is_verified"`
}

func (p *NGOProfile) ToPublic() *NGOPublic {
	return &NGOPublic{
		UserID:           p.UserID,
		OrganizationName: p.OrganizationName,
		Description:      p.Description,
		Website:          p.Website,
		Location:         p.Location,
		FocusAreas:       []string(p.FocusAreas),
		IsVerified:       p.IsVerified,
	}
}

// ============================================================
// Mission & Application Tables
// ============================================================

// Mission is a volunteering opportunity posted by an NGO.
// volunteers_accepted is only written by the application lifecycle.
type Mission struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	Title              string                      `gorm:"size:200;not null" json:"title"`
	Description        string                      `gorm:"type:text;not null" json:"description"`
	Category           string                      `gorm:"size:100;not null;index" json:"category"`
	Location           string                      `gorm:"size:200;not null" json:"location"`
	Date               time.Time                   `gorm:"not null;index" json:"date"`
	Duration           int                         `gorm:"not null" json:"duration"`
	VolunteersNeeded   int                         `gorm:"not null;check:chk_missions_volunteers_needed,volunteers_needed >= 1" json:"volunteers_needed"`
	VolunteersAccepted int                         `gorm:"not null;default:0;check:chk_missions_capacity,volunteers_accepted >= 0 AND volunteers_accepted <= volunteers_needed" json:"volunteers_accepted"`
	Status             string                      `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	SkillsRequired     datatypes.JSONSlice[string] `json:"skills_required"`
	Requirements       string                      `gorm:"type:text" json:"requirements"`
	CreatorID          uint                        `gorm:"not null;index" json:"creator_id"`
	CreatedAt          time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatorID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Mission) TableName() string {
	return "missions"
}

// SpotsLeft returns the remaining capacity
func (m *Mission) SpotsLeft() int {
	return m.VolunteersNeeded - m.VolunteersAccepted
}

// IsFull reports whether no more applications can be accepted
func (m *Mission) IsFull() bool {
	return m.VolunteersAccepted >= m.VolunteersNeeded
}

// HasStarted reports whether the mission date is before now
func (m *Mission) HasStarted(now time.Time) bool {
	return m.Date.Before(now)
}

// MissionResponse DTO
type MissionResponse struct {
	*Mission
	SpotsLeft         int        `json:"spots_left"`
	Organization      *NGOPublic `json:"organization,omitempty"`
	ApplicationsCount *int64     `json:"applications_count,omitempty"`
}

func (m *Mission) ToResponse() *MissionResponse {
	resp := &MissionResponse{
		Mission:   m,
		SpotsLeft: m.SpotsLeft(),
	}
	if m.Creator != nil && m.Creator.NGOProfile != nil {
		resp.Organization = m.Creator.NGOProfile.ToPublic()
	}
	return resp
}

// Application is a volunteer's request to join a mission.
// The (mission_id, volunteer_id) pair is unique across all statuses.
type Application struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	MissionID   uint       `gorm:"not null;uniqueIndex:idx_applications_mission_volunteer,priority:1" json:"mission_id"`
	VolunteerID uint       `gorm:"not null;uniqueIndex:idx_applications_mission_volunteer,priority:2;index" json:"volunteer_id"`
	Status      string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Message     string     `gorm:"type:text" json:"message"`
	Feedback    string     `gorm:"type:text" json:"feedback"`
	AppliedAt   time.Time  `gorm:"not null" json:"applied_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Mission   *Mission `gorm:"foreignKey:MissionID;constraint:OnDelete:RESTRICT" json:"mission,omitempty"`
	Volunteer *User    `gorm:"foreignKey:VolunteerID;constraint:OnDelete:RESTRICT" json:"volunteer,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// CurrentStatus returns the typed status
func (a *Application) CurrentStatus() domain.ApplicationStatus {
	return domain.ApplicationStatus(a.Status)
}

// AutoMigrate creates or updates every table owned by this service
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&VolunteerProfile{},
		&NGOProfile{},
		&Mission{},
		&Application{},
	)
}
