package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docboard/internal/api/dto"
	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/service"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

// AuthHandler exposes registration, session and password endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	appEnv string
}

// NewAuthHandler constructs handler. appEnv toggles the Secure cookie flag.
func NewAuthHandler(authService *service.AuthService, appEnv string) *AuthHandler {
	return &AuthHandler{auth: authService, appEnv: appEnv}
}

// Register handles POST /auth/register. Registration never issues a
// session; the new account signs in through /auth/login.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return errorutil.NewValidationError("invalid payload", details)
	}

	actor, _ := auth.PrincipalFromContext(c)
	input := service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	user, err := h.auth.Register(c.UserContext(), input, actor)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// Login handles POST /auth/login. The session token travels both in the
// response body and in an HttpOnly cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return errorutil.NewValidationError("invalid payload", details)
	}

	user, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, expiresAt)
	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			User: dto.NewUserResponse(user),
			Auth: dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Logout handles POST /auth/logout. Sessions are stateless, so logout just
// clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthenticated("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewPrincipalResponse(principal)})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthenticated("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return errorutil.NewValidationError("invalid payload", details)
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HTTPOnly: true,
		Secure:   h.appEnv == "production",
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.appEnv == "production",
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
