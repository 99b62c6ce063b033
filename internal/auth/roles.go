package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/domain"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// RequireRole ensures the principal has one of the allowed roles. ADMIN
// always passes.
func RequireRole(allowed ...domain.AnalystRole) fiber.Handler {
	allowedSet := make(map[domain.AnalystRole]struct{}, len(allowed)+1)
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}
	allowedSet[domain.AnalystRoleAdmin] = struct{}{}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Analyst == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
