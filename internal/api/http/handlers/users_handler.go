package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallboard-service/internal/api/dto"
	"github.com/spec-kit/wallboard-service/internal/domain"
	"github.com/spec-kit/wallboard-service/internal/repository"
	"github.com/spec-kit/wallboard-service/internal/service"
	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

// UsersHandler exposes the admin-gated account directory CRUD surface.
type UsersHandler struct {
	directory *service.DirectoryService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{directory: directory}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	filter := repository.AccountFilter{}
	if val := c.Query("role"); val != "" {
		role := domain.Role(val)
		filter.Role = &role
	}
	if val := c.Query("status"); val != "" {
		status := domain.AccountStatus(val)
		filter.Status = &status
	}
	if val := c.Query("teamId"); val != "" {
		teamID, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("teamId must be an integer", map[string]any{"teamId": val})
		}
		filter.TeamID = &teamID
	}

	accounts, err := h.directory.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.NewAccountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "count": len(items)})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return err
	}
	account, err := h.directory.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewAccountResponse(account)})
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.AccountCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.FullName == "" || req.Role == "" {
		return apperrors.NewValidationError("username, fullName and role are required", nil)
	}

	input := service.AccountCreateInput{
		Username: req.Username,
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
		TeamID:   req.TeamID,
	}
	if req.Status != nil {
		input.Status = domain.AccountStatus(*req.Status)
	}

	account, err := h.directory.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data":    dto.NewAccountResponse(account),
	})
}

// Update handles PUT /users/:id. A username in the body is dropped silently.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return err
	}

	var req dto.AccountUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.AccountUpdateInput{FullName: req.FullName}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}
	if req.Status != nil {
		status := domain.AccountStatus(*req.Status)
		input.Status = &status
	}
	if req.TeamID.Present {
		input.TeamID = &req.TeamID.Value
	}

	account, err := h.directory.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"data":    dto.NewAccountResponse(account),
	})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return err
	}
	if err := h.directory.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}

// ListTeams handles GET /teams for account form population.
func (h *UsersHandler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.directory.ListTeams(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, dto.TeamResponse{ID: teams[i].ID, Name: teams[i].Name})
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "count": len(items)})
}

func parseAccountID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewValidationError("invalid user ID", map[string]any{"id": raw})
	}
	return id, nil
}
