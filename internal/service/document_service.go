package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/events"
	"github.com/spec-kit/docboard/internal/repository"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

// DocumentService coordinates the document lifecycle.
type DocumentService struct {
	documents  repository.DocumentRepository
	dispatcher events.Dispatcher
}

// DocumentDependencies bundles collaborators for document service.
type DocumentDependencies struct {
	DocumentRepo repository.DocumentRepository
	Dispatcher   events.Dispatcher
}

// NewDocumentService constructs the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	return &DocumentService{
		documents:  deps.DocumentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// DocumentCreateInput describes document creation payload. Nil status and
// priority fall back to TODO and MEDIUM.
type DocumentCreateInput struct {
	Title    string
	Content  string
	Status   *domain.Status
	Priority *domain.Priority
}

// DocumentPatch carries a partial update. Nil fields are left unchanged.
type DocumentPatch struct {
	Title    *string
	Content  *string
	Status   *domain.Status
	Priority *domain.Priority
}

// Create validates the input and persists a new document owned by authorID.
func (s *DocumentService) Create(ctx context.Context, authorID int64, input DocumentCreateInput) (*domain.Document, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	status := domain.StatusTodo
	priority := domain.PriorityMedium

	details := map[string]any{}
	if problem := titleProblem(title); problem != "" {
		details["title"] = problem
	}
	if content == "" {
		details["content"] = "must not be empty"
	}
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			details["status"] = statusHint
		} else {
			status = *input.Status
		}
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			details["priority"] = priorityHint
		} else {
			priority = *input.Priority
		}
	}
	if len(details) > 0 {
		return nil, errorutil.NewValidationError("invalid document", details)
	}

	doc := &domain.Document{
		ID:       uuid.NewString(),
		Title:    title,
		Content:  content,
		Status:   status,
		Priority: priority,
		AuthorID: authorID,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, events.EventDocumentCreated, authorID, events.DocumentCreatedPayload{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Status:     doc.Status,
		Priority:   doc.Priority,
	})

	// Re-read to return the aggregate with its author attached.
	created, err := s.documents.GetByID(ctx, doc.ID)
	if err != nil {
		return doc, nil
	}
	return created, nil
}

// Get fetches a single document. Any authenticated principal may read any
// document.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, documentLookupError(err)
	}
	return doc, nil
}

// List returns documents matching the filter, newest first.
func (s *DocumentService) List(ctx context.Context, filter repository.DocumentFilter) ([]domain.Document, error) {
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Update applies a partial update. Only the author or an admin may modify a
// document; authorship itself never changes. updatedAt refreshes on every
// successful write.
func (s *DocumentService) Update(ctx context.Context, id string, requester *auth.Principal, patch DocumentPatch) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, documentLookupError(err)
	}
	if err := requireAuthorOrAdmin(requester, doc); err != nil {
		return nil, err
	}

	details := map[string]any{}
	var fields []string

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if problem := titleProblem(title); problem != "" {
			details["title"] = problem
		} else {
			doc.Title = title
			fields = append(fields, "title")
		}
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			details["content"] = "must not be empty"
		} else {
			doc.Content = content
			fields = append(fields, "content")
		}
	}
	oldStatus := doc.Status
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			details["status"] = statusHint
		} else {
			// Any status may follow any other.
			doc.Status = *patch.Status
			fields = append(fields, "status")
		}
	}
	if patch.Priority != nil {
		if !domain.ValidPriority(*patch.Priority) {
			details["priority"] = priorityHint
		} else {
			doc.Priority = *patch.Priority
			fields = append(fields, "priority")
		}
	}
	if len(details) > 0 {
		return nil, errorutil.NewValidationError("invalid document", details)
	}

	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, documentLookupError(err)
	}

	publish(ctx, s.dispatcher, events.EventDocumentUpdated, requester.ID, events.DocumentUpdatedPayload{
		DocumentID: doc.ID,
		Fields:     fields,
	})
	if doc.Status != oldStatus {
		publish(ctx, s.dispatcher, events.EventDocumentStatusChanged, requester.ID, events.DocumentStatusChangedPayload{
			DocumentID: doc.ID,
			OldStatus:  oldStatus,
			NewStatus:  doc.Status,
		})
	}
	return doc, nil
}

// Delete removes a document permanently. Only the author or an admin may
// delete; a repeated delete reports NotFound.
func (s *DocumentService) Delete(ctx context.Context, id string, requester *auth.Principal) error {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return documentLookupError(err)
	}
	if err := requireAuthorOrAdmin(requester, doc); err != nil {
		return err
	}

	if err := s.documents.Delete(ctx, id); err != nil {
		return documentLookupError(err)
	}

	publish(ctx, s.dispatcher, events.EventDocumentDeleted, requester.ID, events.DocumentDeletedPayload{
		DocumentID: doc.ID,
		Title:      doc.Title,
	})
	return nil
}

const (
	statusHint   = "must be one of TODO, IN_PROGRESS, DONE"
	priorityHint = "must be one of LOW, MEDIUM, HIGH, URGENT"
)

func titleProblem(title string) string {
	if title == "" {
		return "must not be empty"
	}
	if utf8.RuneCountInString(title) > domain.TitleMaxLen {
		return fmt.Sprintf("must be at most %d characters", domain.TitleMaxLen)
	}
	return ""
}

func requireAuthorOrAdmin(p *auth.Principal, doc *domain.Document) error {
	if p == nil {
		return errorutil.NewUnauthenticated("authentication required")
	}
	if p.ID == doc.AuthorID || p.Role == domain.RoleAdmin {
		return nil
	}
	return errorutil.NewForbidden("only the author or an admin may modify this document")
}

func documentLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errorutil.NewNotFound("document", nil)
	}
	return errorutil.NewInternalError(err)
}

// publish stamps and dispatches a domain event. Delivery is best effort.
func publish(ctx context.Context, dispatcher events.Dispatcher, eventType events.EventType, actorID int64, payload interface{}) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
