package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

// Authorize is the pure access decision: a nil principal is unauthenticated,
// a non-empty required set without a matching role is forbidden. No I/O.
func Authorize(p *Principal, required ...domain.Role) error {
	if p == nil {
		return errorutil.NewUnauthenticated("authentication required")
	}
	if len(required) == 0 {
		return nil
	}
	for _, role := range required {
		if p.Role == role {
			return nil
		}
	}
	return errorutil.NewForbidden("insufficient role")
}

// RequireAuthenticated admits any signed-in principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Authorize(principal); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireRoles admits principals holding one of the given roles.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Authorize(principal, roles...); err != nil {
			return err
		}
		return c.Next()
	}
}
