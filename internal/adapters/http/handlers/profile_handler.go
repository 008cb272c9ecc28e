package handlers

import (
	"volunteer-connect/internal/adapters/http/middleware"
	"volunteer-connect/internal/core/services"
	"volunteer-connect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile handles getting the caller's profile
// @Summary Get my profile
// @Description Get the authenticated user with whichever profile exists
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.profileService.GetMe(c.UserContext(), p.UserID)
	if err != nil {
		return respondError(c, err, "User")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user": user,
	})
}

// UpdateVolunteerProfile handles creating or patching a volunteer profile
// @Summary Upsert volunteer profile
// @Description Create the volunteer profile or patch the supplied fields
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.VolunteerProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /profile/volunteer [put]
func (h *ProfileHandler) UpdateVolunteerProfile(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.VolunteerProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.profileService.UpsertVolunteerProfile(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err, "Profile")
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"profile": profile,
	})
}

// UpdateNGOProfile handles creating or patching an NGO profile
// @Summary Upsert NGO profile
// @Description Create the organization profile or patch the supplied fields
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.NGOProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /profile/ngo [put]
func (h *ProfileHandler) UpdateNGOProfile(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.NGOProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.profileService.UpsertNGOProfile(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err, "Profile")
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"profile": profile,
	})
}

// GetNGO handles the public NGO profile
// @Summary Get NGO
// @Description Public profile of an NGO
// @Tags Profile
// @Accept json
// @Produce json
// @Param id path int true "NGO user ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /ngos/{id} [get]
func (h *ProfileHandler) GetNGO(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid NGO ID")
	}

	ngo, err := h.profileService.GetNGO(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "NGO")
	}

	return response.Success(c, "NGO retrieved successfully", fiber.Map{
		"ngo": ngo,
	})
}
