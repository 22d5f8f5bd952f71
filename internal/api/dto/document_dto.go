package dto

import (
	"time"

	"github.com/spec-kit/docboard/internal/domain"
)

// CreateDocumentRequest payload. Status and priority are optional and
// default server-side.
type CreateDocumentRequest struct {
	Title    string           `json:"title" validate:"required"`
	Content  string           `json:"content" validate:"required"`
	Status   *domain.Status   `json:"status,omitempty" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority *domain.Priority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// UpdateDocumentRequest is a partial update; absent fields stay unchanged.
type UpdateDocumentRequest struct {
	Title    *string          `json:"title,omitempty"`
	Content  *string          `json:"content,omitempty"`
	Status   *domain.Status   `json:"status,omitempty" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority *domain.Priority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// AuthorResponse is the embedded author summary.
type AuthorResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// DocumentResponse is the outward document shape.
type DocumentResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Status    domain.Status   `json:"status"`
	Priority  domain.Priority `json:"priority"`
	AuthorID  int64           `json:"author_id"`
	Author    *AuthorResponse `json:"author,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewDocumentResponse maps a domain document.
func NewDocumentResponse(doc *domain.Document) DocumentResponse {
	response := DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		Status:    doc.Status,
		Priority:  doc.Priority,
		AuthorID:  doc.AuthorID,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.Author != nil {
		response.Author = &AuthorResponse{
			ID:    doc.Author.ID,
			Name:  doc.Author.Name,
			Email: doc.Author.Email,
			Role:  doc.Author.Role,
		}
	}
	return response
}

// NewDocumentResponses maps a slice of domain documents.
func NewDocumentResponses(docs []domain.Document) []DocumentResponse {
	result := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		result = append(result, NewDocumentResponse(&docs[i]))
	}
	return result
}
