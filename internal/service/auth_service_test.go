package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wallboard-service/internal/config"
	"github.com/spec-kit/wallboard-service/internal/domain"
	"github.com/spec-kit/wallboard-service/internal/events"
	"github.com/spec-kit/wallboard-service/internal/repository"
	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *PresenceService, *fakeAccountRepository) {
	t.Helper()
	accounts := newFakeAccountRepository()
	registry := repository.NewAgentRegistry()
	presence := NewPresenceService(registry, events.NewInMemoryDispatcher())

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			AdminTokenTTLHours: 24,
			AgentTokenTTLHours: 8,
		},
	}
	authSvc := NewAuthService(cfg, AuthDependencies{
		AccountRepo: accounts,
		Registry:    registry,
	})
	return authSvc, presence, accounts
}

func seedAdmin(t *testing.T, accounts *fakeAccountRepository, username string, status domain.AccountStatus) *domain.Account {
	t.Helper()
	account := &domain.Account{
		Username: username,
		FullName: "Directory Admin",
		Role:     domain.RoleAdmin,
		Status:   status,
	}
	require.NoError(t, accounts.Create(context.Background(), account))
	return account
}

func TestLoginAdmin(t *testing.T) {
	authSvc, _, accounts := newAuthFixture(t)
	seedAdmin(t, accounts, "AD001", domain.AccountStatusActive)

	result, err := authSvc.Login(context.Background(), "ad001", LoginKindAdmin)
	require.NoError(t, err)

	require.NotNil(t, result.Account)
	assert.Nil(t, result.Agent)
	assert.Equal(t, "AD001", result.Account.Username)
	assert.NotEmpty(t, result.Token)
	assert.InDelta(t, (24 * time.Hour).Seconds(), time.Until(result.ExpiresAt).Seconds(), 5)

	claims, err := authSvc.TokenManager().Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, domain.SubjectTypeAccount, claims.Subject)

	// Login stamps last_login_at, and the response reflects this login
	// rather than the stale pre-login value.
	assert.NotNil(t, result.Account.LastLoginAt)
	stored, err := accounts.GetByID(context.Background(), result.Account.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginAdminUnknownOrInactive(t *testing.T) {
	authSvc, _, accounts := newAuthFixture(t)
	seedAdmin(t, accounts, "AD002", domain.AccountStatusInactive)

	_, err := authSvc.Login(context.Background(), "AD001", LoginKindAdmin)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, err = authSvc.Login(context.Background(), "AD002", LoginKindAdmin)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestLoginEmptyCode(t *testing.T) {
	authSvc, _, _ := newAuthFixture(t)

	_, err := authSvc.Login(context.Background(), "   ", LoginKindAgent)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestLoginAgent(t *testing.T) {
	authSvc, presence, _ := newAuthFixture(t)
	created, err := presence.Create(context.Background(), AgentCreateInput{
		AgentCode: "A100", Name: "Floor Agent", Department: "Sales",
	})
	require.NoError(t, err)

	result, err := authSvc.Login(context.Background(), "a100", LoginKindAgent)
	require.NoError(t, err)

	require.NotNil(t, result.Agent)
	assert.Nil(t, result.Account)
	assert.Empty(t, result.TeamData)
	assert.Equal(t, created.ID, result.Agent.ID)
	assert.NotNil(t, result.Agent.LoginTime)
	assert.InDelta(t, (8 * time.Hour).Seconds(), time.Until(result.ExpiresAt).Seconds(), 5)

	claims, err := authSvc.TokenManager().Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, claims.Role)
	assert.Equal(t, domain.SubjectTypeAgent, claims.Subject)
	assert.Equal(t, created.ID, claims.SubjectID)
}

func TestLoginAgentUnknownCode(t *testing.T) {
	authSvc, _, _ := newAuthFixture(t)

	_, err := authSvc.Login(context.Background(), "A999", LoginKindAgent)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestLoginSupervisorReceivesRoster(t *testing.T) {
	authSvc, presence, _ := newAuthFixture(t)
	_, err := presence.Create(context.Background(), AgentCreateInput{
		AgentCode: "S200", Name: "Floor Supervisor", Department: "Sales",
	})
	require.NoError(t, err)
	_, err = presence.Create(context.Background(), AgentCreateInput{
		AgentCode: "A100", Name: "Sales Agent", Department: "Sales",
	})
	require.NoError(t, err)
	_, err = presence.Create(context.Background(), AgentCreateInput{
		AgentCode: "A300", Name: "Support Agent", Department: "Support",
	})
	require.NoError(t, err)

	result, err := authSvc.Login(context.Background(), "S200", LoginKindSupervisor)
	require.NoError(t, err)

	claims, err := authSvc.TokenManager().Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupervisor, claims.Role)

	// Roster covers the supervisor's own department only.
	require.Len(t, result.TeamData, 2)
	for _, member := range result.TeamData {
		assert.Equal(t, "Sales", member.Department)
	}
}

func TestLogoutWithoutSessionStore(t *testing.T) {
	authSvc, _, _ := newAuthFixture(t)

	assert.NoError(t, authSvc.Logout(context.Background(), "some-token-id"))
}
