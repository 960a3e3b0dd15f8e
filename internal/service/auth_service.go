package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wallboard-service/internal/auth"
	"github.com/spec-kit/wallboard-service/internal/config"
	"github.com/spec-kit/wallboard-service/internal/domain"
	"github.com/spec-kit/wallboard-service/internal/repository"
	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

// LoginKind distinguishes which credential field the caller supplied.
type LoginKind string

const (
	LoginKindAdmin      LoginKind = "admin"
	LoginKindAgent      LoginKind = "agent"
	LoginKindSupervisor LoginKind = "supervisor"
)

// LoginResult bundles the authenticated identity and its token. Exactly one
// of Account/Agent is set. TeamData carries the supervisor's roster.
type LoginResult struct {
	Account   *domain.Account
	Agent     *domain.Agent
	TeamData  []domain.Agent
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates login flows for both identity kinds.
type AuthService struct {
	accounts repository.AccountRepository
	registry repository.AgentRegistry
	tokenMgr *auth.TokenManager
	sessions *auth.SessionStore
	adminTTL time.Duration
	agentTTL time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Registry    repository.AgentRegistry
	Sessions    *auth.SessionStore
}

// NewAuthService builds the service. Directory accounts receive the long
// TTL profile; presence identities the short one.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts: deps.AccountRepo,
		registry: deps.Registry,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret),
		sessions: deps.Sessions,
		adminTTL: cfg.Auth.AdminTokenTTL(),
		agentTTL: cfg.Auth.AgentTokenTTL(),
	}
}

// Login authenticates a code. AD-prefixed codes resolve against the account
// directory; everything else resolves against the presence registry.
func (s *AuthService) Login(ctx context.Context, code string, kind LoginKind) (*LoginResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.NewValidationError("code is required (agentCode, supervisorCode, or adminCode)", nil)
	}

	if strings.HasPrefix(code, "AD") {
		return s.loginAdmin(ctx, code)
	}
	return s.loginPresence(ctx, code, kind)
}

func (s *AuthService) loginAdmin(ctx context.Context, username string) (*LoginResult, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid admin credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if account.Status != domain.AccountStatusActive {
		return nil, apperrors.NewUnauthorized("invalid admin credentials")
	}

	subject := auth.Subject{
		ID:       strconv.FormatInt(account.ID, 10),
		Type:     domain.SubjectTypeAccount,
		Username: account.Username,
		Role:     account.Role,
		TeamID:   account.TeamID,
	}
	token, expiresAt, err := s.issue(ctx, subject, s.adminTTL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.accounts.RecordLogin(ctx, account.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	// The response reflects this login, not the previous one.
	now := time.Now()
	account.LastLoginAt = &now

	return &LoginResult{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) loginPresence(ctx context.Context, code string, kind LoginKind) (*LoginResult, error) {
	agent, ok := s.registry.GetByCode(code)
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	now := time.Now()
	if updated, err := s.registry.Mutate(agent.ID, func(a *domain.Agent) error {
		a.LoginTime = &now
		a.UpdatedAt = now
		return nil
	}); err == nil && updated != nil {
		agent = updated
	}

	role := domain.RoleAgent
	if kind == LoginKindSupervisor {
		role = domain.RoleSupervisor
	}

	subject := auth.Subject{
		ID:       agent.ID,
		Type:     domain.SubjectTypeAgent,
		Username: agent.AgentCode,
		Role:     role,
	}
	token, expiresAt, err := s.issue(ctx, subject, s.agentTTL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	result := &LoginResult{Agent: agent, Token: token, ExpiresAt: expiresAt}
	if role == domain.RoleSupervisor {
		department := agent.Department
		result.TeamData = s.registry.List(repository.AgentFilter{Department: &department})
	}
	return result, nil
}

// Logout revokes the presented token's session entry.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, tokenID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(ctx context.Context, subject auth.Subject, ttl time.Duration) (string, time.Time, error) {
	token, claims, err := s.tokenMgr.Issue(subject, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := claims.ExpiresAt.Time
	if s.sessions != nil {
		_ = s.sessions.Track(ctx, claims.RegisteredClaims.ID, subject.ID, time.Until(expiresAt))
	}
	return token, expiresAt, nil
}
