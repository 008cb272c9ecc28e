package handlers

import (
	"volunteer-connect/internal/adapters/http/middleware"
	"volunteer-connect/internal/core/services"
	"volunteer-connect/internal/pkg/pagination"
	"volunteer-connect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// SubmitApplication handles applying to a mission
// @Summary Apply to mission
// @Description Submit a PENDING application for the calling volunteer
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitApplicationInput true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.SubmitApplicationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Submit(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Created(c, "Application submitted successfully", fiber.Map{
		"application": app,
	})
}

// ListMyApplications handles listing the caller's applications
// @Summary List my applications
// @Description List the authenticated volunteer's applications, newest first
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Application status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /applications/my [get]
func (h *ApplicationHandler) ListMyApplications(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	params := pagination.GetParams(c)

	result, err := h.applicationService.ListMine(c.UserContext(), p, &services.ListApplicationsInput{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		return respondError(c, err, "Application")
	}

	return response.Success(c, "Applications retrieved successfully", result)
}

// ListMissionApplications handles listing applications to a mission
// @Summary List mission applications
// @Description List applications to a mission owned by the caller
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param missionId path int true "Mission ID"
// @Param status query string false "Application status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/mission/{missionId} [get]
func (h *ApplicationHandler) ListMissionApplications(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	missionID, ok := paramID(c, "missionId")
	if !ok {
		return response.BadRequest(c, "Invalid mission ID")
	}
	params := pagination.GetParams(c)

	result, err := h.applicationService.ListForMission(c.UserContext(), p, missionID, &services.ListApplicationsInput{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Success(c, "Applications retrieved successfully", result)
}

// GetApplication handles getting an application by ID
// @Summary Get application
// @Description Visible to the applicant and the mission owner
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.Get(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err, "Application")
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": app,
	})
}

// DecideApplication handles accepting or rejecting an application
// @Summary Decide application
// @Description Accept or reject a PENDING application to a mission owned by the caller
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body services.DecideApplicationInput true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) DecideApplication(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req services.DecideApplicationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Decide(c.UserContext(), p, id, &req)
	if err != nil {
		return respondError(c, err, "Application")
	}

	return response.Success(c, "Application updated successfully", fiber.Map{
		"application": app,
	})
}

// WithdrawApplication handles withdrawing an application
// @Summary Withdraw application
// @Description Withdraw a PENDING or ACCEPTED application; an accepted slot is released
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/withdraw [put]
func (h *ApplicationHandler) WithdrawApplication(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.Withdraw(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err, "Application")
	}

	return response.Success(c, "Application withdrawn successfully", fiber.Map{
		"application": app,
	})
}
