package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/adapters/persistence/repositories"
	"volunteer-connect/internal/config"
	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/jwt"
	"volunteer-connect/internal/pkg/logger"
	"volunteer-connect/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthService handles authentication business logic
type AuthService struct {
	tx               repositories.Transactor
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	tx repositories.Transactor,
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		tx:               tx,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input. FirstName and LastName seed
// a volunteer profile, OrganizationName seeds an NGO profile.
type RegisterInput struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	Role               string `json:"role"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	OrganizationName   string `json:"organization_name"`
	RegistrationNumber string `json:"registration_number"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in *RegisterInput) validate() error {
	in.Email = normalizeEmail(in.Email)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.OrganizationName = strings.TrimSpace(in.OrganizationName)

	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if !password.ValidatePassword(in.Password) {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, password.MinLength)
	}

	role := domain.Role(in.Role)
	if !role.SelfRegistrable() {
		return fmt.Errorf("%w: role must be VOLUNTEER or NGO", domain.ErrValidation)
	}
	if role == domain.RoleVolunteer && in.FirstName == "" {
		return fmt.Errorf("%w: first_name is required for volunteers", domain.ErrValidation)
	}
	if role == domain.RoleNGO && in.OrganizationName == "" {
		return fmt.Errorf("%w: organization_name is required for NGOs", domain.ErrValidation)
	}
	return nil
}

// Register creates a user and its role profile in one transaction, then
// signs the user in.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email is already registered", domain.ErrConflict)
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    input.Email,
		Password: hashedPassword,
		Role:     input.Role,
		IsActive: true,
	}
	switch domain.Role(input.Role) {
	case domain.RoleVolunteer:
		user.VolunteerProfile = &models.VolunteerProfile{
			FirstName: input.FirstName,
			LastName:  input.LastName,
		}
	case domain.RoleNGO:
		user.NGOProfile = &models.NGOProfile{
			OrganizationName:   input.OrganizationName,
			RegistrationNumber: strings.TrimSpace(input.RegistrationNumber),
		}
	}

	var resp *AuthResponse
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		resp, err = s.issue(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return resp, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("user logged in")
	return resp, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked and
// a new pair is issued.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	var resp *AuthResponse
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrTokenInvalid
			}
			return err
		}
		if storedToken.UserID != claims.UserID {
			return domain.ErrTokenInvalid
		}
		if storedToken.IsRevoked() {
			return domain.ErrTokenRevoked
		}
		if storedToken.IsExpired() {
			return domain.ErrTokenExpired
		}

		user, err := s.userRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrTokenInvalid
			}
			return err
		}
		if !user.IsActive {
			return domain.ErrUserInactive
		}

		if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
			return err
		}
		resp, err = s.issue(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", claims.UserID).Debug("refresh token rotated")
	return resp, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return err
	}

	logger.Log.Debug("refresh token revoked on logout")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	logger.Log.WithField("user_id", userID).Info("all sessions revoked")
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// DeactivateUser disables an account and revokes its sessions. Only admins
// may do this, and never to themselves.
func (s *AuthService) DeactivateUser(ctx context.Context, p domain.Principal, userID uint) error {
	if p.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	if p.UserID == userID {
		return fmt.Errorf("%w: admins cannot deactivate themselves", domain.ErrInvalidState)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
			return fmt.Errorf("deactivate user %d: %w", userID, err)
		}
		return s.refreshTokenRepo.RevokeAllByUserID(ctx, userID)
	})
	if err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{"user_id": userID, "admin_id": p.UserID}).Warn("user deactivated")
	return nil
}

// issue generates a token pair for user and stores the refresh token hash
func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	// a unique token ID keeps two refresh tokens issued in the same second distinct
	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token hash in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
