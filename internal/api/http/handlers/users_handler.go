package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docboard/internal/api/dto"
	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/service"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

// UsersHandler exposes admin account endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// ChangeRole PATCH /api/users/:id/role.
func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthenticated("authentication required")
	}

	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return errorutil.NewValidationError("invalid user id", map[string]any{
			"id": "must be an integer",
		})
	}

	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return errorutil.NewValidationError("invalid payload", details)
	}

	user, err := h.service.ChangeRole(c.UserContext(), principal, userID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
