package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallboard-service/internal/domain"
	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

// RequireAdmin gates the directory's administrative surface. The role claim
// is compared case-insensitively; on rejection the caller's session is
// revoked so a cached token cannot be replayed.
func RequireAdmin(sessions *SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !strings.EqualFold(string(principal.Claims.Role), string(domain.RoleAdmin)) {
			if sessions != nil {
				_ = sessions.Revoke(c.Context(), principal.TokenID)
			}
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a caller presented a valid token.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
