package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/repository"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_token"

// Principal is the resolved identity of the current request. It never
// carries the password hash.
type Principal struct {
	ID        int64
	Name      string
	Email     string
	Role      domain.Role
	CreatedAt time.Time
}

// AuthMiddleware resolves session tokens into principals. The user record is
// re-read from storage on every request, so role changes take effect on the
// next request rather than at the next login.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	if principal == nil {
		return errorutil.NewUnauthenticated("authentication required")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional resolves the identity when present but admits anonymous requests.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	if principal != nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

// resolve maps the request to a principal, or to nil when no trustworthy
// identity is attached. A missing, invalid or expired token and a token for
// a user that no longer exists all resolve to nil.
func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*Principal, error) {
	raw := tokenFromRequest(c)
	if raw == "" {
		return nil, nil
	}

	claims, err := m.tokens.Verify(raw)
	if err != nil {
		return nil, nil
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, errorutil.NewInternalError(err)
	}

	return &Principal{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}, nil
}

// tokenFromRequest prefers the session cookie and falls back to a bearer
// header for non-browser clients.
func tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
