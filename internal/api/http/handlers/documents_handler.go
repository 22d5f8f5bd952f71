package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docboard/internal/api/dto"
	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/repository"
	"github.com/spec-kit/docboard/internal/service"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

// DocumentsHandler manages document endpoints.
type DocumentsHandler struct {
	service *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documentService *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{service: documentService}
}

// Create POST /api/documents.
func (h *DocumentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthenticated("authentication required")
	}

	var req dto.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return errorutil.NewValidationError("invalid payload", details)
	}

	input := service.DocumentCreateInput{
		Title:    req.Title,
		Content:  req.Content,
		Status:   req.Status,
		Priority: req.Priority,
	}
	doc, err := h.service.Create(c.UserContext(), principal.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDocumentResponse(doc)})
}

// List GET /api/documents.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	filter, err := parseDocumentFilter(c)
	if err != nil {
		return err
	}
	docs, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentResponses(docs)})
}

// Get GET /api/documents/:id.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	doc, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentResponse(doc)})
}

// Update PATCH /api/documents/:id.
func (h *DocumentsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthenticated("authentication required")
	}

	var req dto.UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return errorutil.NewValidationError("invalid payload", details)
	}

	patch := service.DocumentPatch{
		Title:    req.Title,
		Content:  req.Content,
		Status:   req.Status,
		Priority: req.Priority,
	}
	doc, err := h.service.Update(c.UserContext(), c.Params("id"), principal, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentResponse(doc)})
}

// Delete DELETE /api/documents/:id.
func (h *DocumentsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthenticated("authentication required")
	}

	if err := h.service.Delete(c.UserContext(), c.Params("id"), principal); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// parseDocumentFilter reads optional status and priority query parameters.
// Unknown enum values are rejected, not silently ignored.
func parseDocumentFilter(c *fiber.Ctx) (repository.DocumentFilter, error) {
	var filter repository.DocumentFilter

	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		if !domain.ValidStatus(status) {
			return filter, errorutil.NewValidationError("invalid filter", map[string]any{
				"status": "must be one of TODO, IN_PROGRESS, DONE",
			})
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.Priority(raw)
		if !domain.ValidPriority(priority) {
			return filter, errorutil.NewValidationError("invalid filter", map[string]any{
				"priority": "must be one of LOW, MEDIUM, HIGH, URGENT",
			})
		}
		filter.Priority = &priority
	}
	return filter, nil
}
