package middleware

import (
	"errors"
	"strings"

	"volunteer-connect/internal/config"
	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/jwt"
	"volunteer-connect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// tokenFromRequest reads the access token from the cookie, falling back to
// the Authorization header
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func setClaims(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals("userID", claims.UserID)
	c.Locals("email", claims.Email)
	c.Locals("role", claims.Role)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFromRequest(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if domain.Role(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// NGOOnly middleware allows only NGO role
func NGOOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleNGO)
}

// VolunteerOnly middleware allows only VOLUNTEER role
func VolunteerOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleVolunteer)
}

// Principal returns the authenticated caller set by AuthMiddleware
func Principal(c *fiber.Ctx) (domain.Principal, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return domain.Principal{}, false
	}
	email, _ := c.Locals("email").(string)
	role, _ := c.Locals("role").(string)

	return domain.Principal{UserID: userID, Email: email, Role: domain.Role(role)}, true
}
