package handlers

import (
	"volunteer-connect/internal/adapters/http/middleware"
	"volunteer-connect/internal/core/services"
	"volunteer-connect/internal/pkg/pagination"
	"volunteer-connect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MissionHandler handles mission endpoints
type MissionHandler struct {
	missionService *services.MissionService
}

// NewMissionHandler creates a new mission handler
func NewMissionHandler(missionService *services.MissionService) *MissionHandler {
	return &MissionHandler{
		missionService: missionService,
	}
}

// ListMissions handles the public mission catalogue
// @Summary List missions
// @Description Search missions, soonest first. Only ACTIVE missions unless status is given.
// @Tags Missions
// @Accept json
// @Produce json
// @Param category query string false "Category (case-insensitive)"
// @Param location query string false "Location substring"
// @Param search query string false "Title or description substring"
// @Param status query string false "Mission status" default(ACTIVE)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /missions [get]
func (h *MissionHandler) ListMissions(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.missionService.List(c.UserContext(), &services.ListMissionsInput{
		Category: c.Query("category"),
		Location: c.Query("location"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Success(c, "Missions retrieved successfully", result)
}

// ListMyMissions handles listing the caller's missions
// @Summary List my missions
// @Description List missions created by the authenticated NGO
// @Tags Missions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Mission status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /missions/my [get]
func (h *MissionHandler) ListMyMissions(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	params := pagination.GetParams(c)

	result, err := h.missionService.ListMine(c.UserContext(), p, &services.ListMissionsInput{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Success(c, "Missions retrieved successfully", result)
}

// GetMission handles getting a mission by ID
// @Summary Get mission
// @Description Get a mission with its organization and application count
// @Tags Missions
// @Accept json
// @Produce json
// @Param id path int true "Mission ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /missions/{id} [get]
func (h *MissionHandler) GetMission(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid mission ID")
	}

	mission, err := h.missionService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Success(c, "Mission retrieved successfully", fiber.Map{
		"mission": mission,
	})
}

// CreateMission handles mission creation
// @Summary Create mission
// @Description Post a new mission. Status defaults to ACTIVE.
// @Tags Missions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateMissionInput true "Mission data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /missions [post]
func (h *MissionHandler) CreateMission(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateMissionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	mission, err := h.missionService.Create(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Created(c, "Mission created successfully", fiber.Map{
		"mission": mission,
	})
}

// UpdateMission handles partial mission updates
// @Summary Update mission
// @Description Merge-patch a mission owned by the caller
// @Tags Missions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mission ID"
// @Param body body services.UpdateMissionInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /missions/{id} [put]
func (h *MissionHandler) UpdateMission(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid mission ID")
	}

	var req services.UpdateMissionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	mission, err := h.missionService.Update(c.UserContext(), p, id, &req)
	if err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Success(c, "Mission updated successfully", fiber.Map{
		"mission": mission,
	})
}

// ArchiveMission handles mission archival
// @Summary Archive mission
// @Description Cancel a mission and keep its applications
// @Tags Missions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mission ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /missions/{id}/archive [put]
func (h *MissionHandler) ArchiveMission(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid mission ID")
	}

	mission, err := h.missionService.Archive(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Success(c, "Mission archived successfully", fiber.Map{
		"mission": mission,
	})
}

// DeleteMission handles mission deletion
// @Summary Delete mission
// @Description Delete a mission that has no applications
// @Tags Missions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mission ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /missions/{id} [delete]
func (h *MissionHandler) DeleteMission(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid mission ID")
	}

	if err := h.missionService.Delete(c.UserContext(), p, id); err != nil {
		return respondError(c, err, "Mission")
	}

	return response.Success(c, "Mission deleted successfully", nil)
}
