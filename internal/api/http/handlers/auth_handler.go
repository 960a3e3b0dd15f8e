package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallboard-service/internal/api/dto"
	"github.com/spec-kit/wallboard-service/internal/auth"
	"github.com/spec-kit/wallboard-service/internal/service"
	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login. The body carries exactly one of adminCode,
// agentCode or supervisorCode.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	code := req.AdminCode
	kind := service.LoginKindAdmin
	switch {
	case req.AdminCode != "":
	case req.SupervisorCode != "":
		code = req.SupervisorCode
		kind = service.LoginKindSupervisor
	case req.AgentCode != "":
		code = req.AgentCode
		kind = service.LoginKindAgent
	default:
		return apperrors.NewValidationError("code is required (agentCode, supervisorCode, or adminCode)", nil)
	}

	result, err := h.authService.Login(c.Context(), code, kind)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"token": result.Token,
		"auth":  dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}
	if result.Account != nil {
		data["user"] = dto.NewAccountResponse(result.Account)
	} else if result.Agent != nil {
		data["user"] = dto.NewAgentResponse(result.Agent)
	}
	if result.TeamData != nil {
		roster := make([]dto.AgentResponse, 0, len(result.TeamData))
		for i := range result.TeamData {
			roster = append(roster, dto.NewAgentResponse(&result.TeamData[i]))
		}
		data["teamData"] = roster
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.authService.Logout(c.Context(), principal.TokenID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}
