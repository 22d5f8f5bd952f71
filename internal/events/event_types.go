package events

import (
	"time"

	"github.com/spec-kit/docboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDocumentCreated       EventType = "document_created"
	EventDocumentUpdated       EventType = "document_updated"
	EventDocumentStatusChanged EventType = "document_status_changed"
	EventDocumentDeleted       EventType = "document_deleted"
	EventUserRegistered        EventType = "user_registered"
	EventUserRoleChanged       EventType = "user_role_changed"
)

// Event represents a domain event emitted by services. ActorID is the user
// who performed the action; zero means the system itself.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DocumentCreatedPayload payload.
type DocumentCreatedPayload struct {
	DocumentID string          `json:"document_id"`
	Title      string          `json:"title"`
	Status     domain.Status   `json:"status"`
	Priority   domain.Priority `json:"priority"`
}

// DocumentUpdatedPayload payload. Fields lists the field names the patch
// touched.
type DocumentUpdatedPayload struct {
	DocumentID string   `json:"document_id"`
	Fields     []string `json:"fields"`
}

// DocumentStatusChangedPayload payload.
type DocumentStatusChangedPayload struct {
	DocumentID string        `json:"document_id"`
	OldStatus  domain.Status `json:"old_status"`
	NewStatus  domain.Status `json:"new_status"`
}

// DocumentDeletedPayload payload.
type DocumentDeletedPayload struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID int64       `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	UserID  int64       `json:"user_id"`
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}
