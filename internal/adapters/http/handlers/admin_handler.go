package handlers

import (
	"volunteer-connect/internal/adapters/http/middleware"
	"volunteer-connect/internal/core/services"
	"volunteer-connect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles admin-only endpoints
type AdminHandler struct {
	authService    *services.AuthService
	profileService *services.ProfileService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *services.AuthService, profileService *services.ProfileService) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// VerifyNGORequest represents verify NGO request body
type VerifyNGORequest struct {
	Verified *bool `json:"verified"`
}

// VerifyNGO handles toggling NGO verification
// @Summary Verify NGO
// @Description Mark an NGO as verified or unverified. Defaults to verified.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "NGO user ID"
// @Param body body VerifyNGORequest false "Verification flag"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/ngos/{userId}/verify [put]
func (h *AdminHandler) VerifyNGO(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "userId")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	verified := true
	if len(c.Body()) > 0 {
		var req VerifyNGORequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		if req.Verified != nil {
			verified = *req.Verified
		}
	}

	ngo, err := h.profileService.SetNGOVerified(c.UserContext(), p, id, verified)
	if err != nil {
		return respondError(c, err, "NGO")
	}

	return response.Success(c, "NGO verification updated", fiber.Map{
		"ngo": ngo,
	})
}

// DeactivateUser handles deactivating a user
// @Summary Deactivate user
// @Description Disable an account and revoke all its sessions
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/deactivate [put]
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.authService.DeactivateUser(c.UserContext(), p, id); err != nil {
		return respondError(c, err, "User")
	}

	return response.Success(c, "User deactivated successfully", nil)
}
