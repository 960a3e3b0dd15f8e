package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/wallboard-service/internal/api/http/handlers"
	"github.com/spec-kit/wallboard-service/internal/auth"
	"github.com/spec-kit/wallboard-service/internal/config"
	"github.com/spec-kit/wallboard-service/internal/domain"
	"github.com/spec-kit/wallboard-service/internal/events"
	"github.com/spec-kit/wallboard-service/internal/observability"
	"github.com/spec-kit/wallboard-service/internal/repository"
	"github.com/spec-kit/wallboard-service/internal/service"
)

// memAccounts is a map-backed repository.AccountRepository so the directory
// surface can be exercised without Postgres.
type memAccounts struct {
	nextID   int64
	accounts map[int64]*domain.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{nextID: 1, accounts: map[int64]*domain.Account{}}
}

func (r *memAccounts) Create(ctx context.Context, account *domain.Account) error {
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.nextID++
	stored := *account
	r.accounts[stored.ID] = &stored
	return nil
}

func (r *memAccounts) UpdateFields(ctx context.Context, id int64, patch repository.AccountPatch) error {
	account, ok := r.accounts[id]
	if !ok || account.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	if patch.FullName != nil {
		account.FullName = *patch.FullName
	}
	if patch.Role != nil {
		account.Role = *patch.Role
	}
	if patch.TeamID != nil {
		account.TeamID = *patch.TeamID
	}
	if patch.Status != nil {
		account.Status = *patch.Status
	}
	return nil
}

func (r *memAccounts) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok || account.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (r *memAccounts) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username && account.DeletedAt == nil {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAccounts) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *memAccounts) List(ctx context.Context, filter repository.AccountFilter) ([]domain.Account, error) {
	var result []domain.Account
	for _, account := range r.accounts {
		if account.DeletedAt != nil {
			continue
		}
		if filter.Role != nil && account.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && account.Status != *filter.Status {
			continue
		}
		if filter.TeamID != nil && (account.TeamID == nil || *account.TeamID != *filter.TeamID) {
			continue
		}
		result = append(result, *account)
	}
	return result, nil
}

func (r *memAccounts) SoftDelete(ctx context.Context, id int64) error {
	account, ok := r.accounts[id]
	if !ok || account.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	now := time.Now()
	account.DeletedAt = &now
	account.Status = domain.AccountStatusInactive
	return nil
}

func (r *memAccounts) RecordLogin(ctx context.Context, id int64) error {
	if account, ok := r.accounts[id]; ok {
		now := time.Now()
		account.LastLoginAt = &now
	}
	return nil
}

type memTeams struct{}

func (memTeams) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	return &domain.Team{ID: id, Name: "Alpha"}, nil
}

func (memTeams) List(ctx context.Context) ([]domain.Team, error) {
	return []domain.Team{{ID: 1, Name: "Alpha"}}, nil
}

type testEnv struct {
	app      *fiber.App
	presence *service.PresenceService
	authSvc  *service.AuthService
	accounts *memAccounts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	registry := repository.NewAgentRegistry()
	presence := service.NewPresenceService(registry, events.NewInMemoryDispatcher())
	accounts := newMemAccounts()
	directory := service.NewDirectoryService(accounts, memTeams{})

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "router-test-secret",
			AdminTokenTTLHours: 24,
			AgentTokenTTLHours: 8,
		},
	}
	authSvc := service.NewAuthService(cfg, service.AuthDependencies{
		AccountRepo: accounts,
		Registry:    registry,
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("wallboard-service", "test", nil, nil),
		Users:          handlers.NewUsersHandler(directory),
		Agents:         handlers.NewAgentsHandler(presence),
		Auth:           handlers.NewAuthHandler(authSvc),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc.TokenManager(), nil, zap.NewNop()),
	})

	return &testEnv{app: app, presence: presence, authSvc: authSvc, accounts: accounts}
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	account := &domain.Account{
		Username: "AD001",
		FullName: "Directory Admin",
		Role:     domain.RoleAdmin,
		Status:   domain.AccountStatusActive,
	}
	require.NoError(t, e.accounts.Create(context.Background(), account))
	result, err := e.authSvc.Login(context.Background(), "AD001", service.LoginKindAdmin)
	require.NoError(t, err)
	return result.Token
}

func (e *testEnv) seedAgent(t *testing.T, code string) *domain.Agent {
	t.Helper()
	agent, err := e.presence.Create(context.Background(), service.AgentCreateInput{
		AgentCode: code, Name: "Agent " + code, Department: "Sales",
	})
	require.NoError(t, err)
	return agent
}

func (e *testEnv) agentToken(t *testing.T, code string) string {
	t.Helper()
	result, err := e.authSvc.Login(context.Background(), code, service.LoginKindAgent)
	require.NoError(t, err)
	return result.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)

	resp, payload := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, payload)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedAgent(t, "A100")

	resp, payload := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"agentCode": "A100"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, payload["success"])

	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A100", user["agentCode"])
}

func TestLoginEndpointBadCode(t *testing.T) {
	env := newTestEnv(t)

	resp, payload := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"agentCode": "NOPE"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "UNAUTHORIZED", payload["code"])
}

func TestAgentsRequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp, payload := env.do(t, http.MethodGet, "/api/agents/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", payload["code"])

	resp, _ = env.do(t, http.MethodGet, "/api/agents/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsersRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	env.seedAgent(t, "A100")
	token := env.agentToken(t, "A100")

	resp, payload := env.do(t, http.MethodGet, "/api/users/", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", payload["code"])
}

func TestAgentStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedAgent(t, "A100")
	token := env.agentToken(t, "A100")

	resp, payload := env.do(t, http.MethodPut, "/api/agents/"+agent.ID+"/status", token,
		fiber.Map{"status": "Busy", "reason": "inbound call"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "Busy", data["status"])

	// Busy -> Break is not a legal transition.
	resp, payload = env.do(t, http.MethodPut, "/api/agents/"+agent.ID+"/status", token,
		fiber.Map{"status": "Break"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", payload["code"])
}

func TestAgentCreateAndSummaryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedAgent(t, "A100")
	token := env.agentToken(t, "A100")

	resp, payload := env.do(t, http.MethodPost, "/api/agents/", token, fiber.Map{
		"agentCode": "A200", "name": "Second Agent", "department": "Support",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, payload["success"])

	// Duplicate code is rejected with a conflict.
	resp, payload = env.do(t, http.MethodPost, "/api/agents/", token, fiber.Map{
		"agentCode": "A200", "name": "Clone",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_CODE", payload["code"])

	resp, payload = env.do(t, http.MethodGet, "/api/agents/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, float64(2), data["totalAgents"])
}

func TestUsersCrudFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	resp, payload := env.do(t, http.MethodPost, "/api/users/", token, fiber.Map{
		"username": "AG001", "fullName": "Jane Operator", "role": "Agent", "teamId": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := payload["data"].(map[string]any)
	userID := created["id"].(float64)
	assert.Equal(t, "AG001", created["username"])

	// Duplicate username is a conflict.
	resp, payload = env.do(t, http.MethodPost, "/api/users/", token, fiber.Map{
		"username": "AG001", "fullName": "Copy Cat", "role": "Agent", "teamId": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_USERNAME", payload["code"])

	// A username in an update body is ignored; other fields apply.
	resp, payload = env.do(t, http.MethodPut, fmt.Sprintf("/api/users/%.0f", userID), token, fiber.Map{
		"username": "AG999", "fullName": "Jane Renamed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := payload["data"].(map[string]any)
	assert.Equal(t, "AG001", updated["username"])
	assert.Equal(t, "Jane Renamed", updated["fullName"])

	// Clearing the team on an Agent violates the role/team invariant.
	resp, payload = env.do(t, http.MethodPut, fmt.Sprintf("/api/users/%.0f", userID), token, fiber.Map{
		"teamId": nil,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TEAM_REQUIRED", payload["code"])

	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%.0f", userID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload = env.do(t, http.MethodGet, fmt.Sprintf("/api/users/%.0f", userID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", payload["code"])
}

func TestAdminLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.adminToken(t)

	resp, payload := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"adminCode": "AD001"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "AD001", user["username"])
	assert.Equal(t, "Admin", user["role"])
}

func TestLogoutEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedAgent(t, "A100")
	token := env.agentToken(t, "A100")

	resp, payload := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["success"])

	resp, _ = env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAgentNotFoundEnvelope(t *testing.T) {
	env := newTestEnv(t)
	env.seedAgent(t, "A100")
	token := env.agentToken(t, "A100")

	resp, payload := env.do(t, http.MethodGet, "/api/agents/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "NOT_FOUND", payload["code"])
}
