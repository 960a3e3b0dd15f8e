package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, taken from verified claims.
type Principal struct {
	Claims  *Claims
	TokenID string
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions *SessionStore
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware. sessions may be nil for
// stateless-only verification.
func NewAuthMiddleware(tokens *TokenManager, sessions *SessionStore, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, sessions: sessions, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	if m.sessions != nil {
		alive, err := m.sessions.Alive(c.Context(), claims.RegisteredClaims.ID)
		if err != nil {
			// Store outage degrades to stateless verification, loudly.
			m.logger.Warn("session store unavailable; skipping revocation check",
				zap.String("token_id", claims.RegisteredClaims.ID), zap.Error(err))
		} else if !alive {
			return apperrors.NewUnauthorized("session revoked")
		}
	}

	c.Locals(principalKey, &Principal{Claims: claims, TokenID: claims.RegisteredClaims.ID})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
