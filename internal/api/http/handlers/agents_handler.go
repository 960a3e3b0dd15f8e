package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallboard-service/internal/api/dto"
	"github.com/spec-kit/wallboard-service/internal/domain"
	"github.com/spec-kit/wallboard-service/internal/repository"
	"github.com/spec-kit/wallboard-service/internal/service"
	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

// AgentsHandler exposes the presence registry endpoints.
type AgentsHandler struct {
	presence *service.PresenceService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(presence *service.PresenceService) *AgentsHandler {
	return &AgentsHandler{presence: presence}
}

// List handles GET /agents.
func (h *AgentsHandler) List(c *fiber.Ctx) error {
	filter := repository.AgentFilter{}
	if val := c.Query("status"); val != "" {
		status := domain.AgentStatus(val)
		filter.Status = &status
	}
	if val := c.Query("department"); val != "" {
		department := val
		filter.Department = &department
	}

	agents, err := h.presence.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, dto.NewAgentResponse(&agents[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "count": len(items)})
}

// Get handles GET /agents/:id.
func (h *AgentsHandler) Get(c *fiber.Ctx) error {
	agent, err := h.presence.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewAgentResponse(agent)})
}

// Create handles POST /agents.
func (h *AgentsHandler) Create(c *fiber.Ctx) error {
	var req dto.AgentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AgentCode == "" || req.Name == "" {
		return apperrors.NewValidationError("agentCode and name are required", nil)
	}

	agent, err := h.presence.Create(c.Context(), service.AgentCreateInput{
		AgentCode:  req.AgentCode,
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Skills:     req.Skills,
		Status:     domain.AgentStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Agent created successfully",
		"data":    dto.NewAgentResponse(agent),
	})
}

// Update handles PUT /agents/:id.
func (h *AgentsHandler) Update(c *fiber.Ctx) error {
	var req dto.AgentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	agent, err := h.presence.UpdateFields(c.Context(), c.Params("id"), service.AgentUpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Skills:     req.Skills,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Agent updated successfully",
		"data":    dto.NewAgentResponse(agent),
	})
}

// ChangeStatus handles PUT /agents/:id/status.
func (h *AgentsHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.AgentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status is required", nil)
	}

	agent, err := h.presence.ChangeStatus(c.Context(), c.Params("id"), domain.AgentStatus(req.Status), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Agent status updated successfully",
		"data":    dto.NewAgentResponse(agent),
	})
}

// Delete handles DELETE /agents/:id.
func (h *AgentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.presence.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Agent deleted successfully"})
}

// Summary handles GET /agents/summary.
func (h *AgentsHandler) Summary(c *fiber.Ctx) error {
	summary := h.presence.Summary(c.Context())
	return c.JSON(fiber.Map{"success": true, "data": summary})
}
