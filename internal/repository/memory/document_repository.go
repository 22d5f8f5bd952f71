package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/repository"
)

type storedDocument struct {
	doc domain.Document
	seq int64
}

// DocumentRepository is an in-memory repository.DocumentRepository. Author
// records are joined from the user store on reads.
type DocumentRepository struct {
	mu      sync.RWMutex
	nextSeq int64
	docs    map[string]storedDocument
	users   *UserRepository
}

// NewDocumentRepository returns an empty store joining authors from users.
func NewDocumentRepository(users *UserRepository) *DocumentRepository {
	return &DocumentRepository{docs: make(map[string]storedDocument), users: users}
}

func (r *DocumentRepository) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	r.nextSeq++
	r.docs[doc.ID] = storedDocument{doc: *doc, seq: r.nextSeq}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	stored, ok := r.docs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}

	doc := stored.doc
	r.attachAuthor(ctx, &doc)
	return &doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, filter repository.DocumentFilter) ([]domain.Document, error) {
	r.mu.RLock()
	matched := make([]storedDocument, 0, len(r.docs))
	for _, stored := range r.docs {
		if filter.Status != nil && stored.doc.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && stored.doc.Priority != *filter.Priority {
			continue
		}
		matched = append(matched, stored)
	}
	r.mu.RUnlock()

	// Newest first; insertion order breaks ties within one clock tick.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].doc.CreatedAt.Equal(matched[j].doc.CreatedAt) {
			return matched[i].seq > matched[j].seq
		}
		return matched[i].doc.CreatedAt.After(matched[j].doc.CreatedAt)
	})

	result := make([]domain.Document, 0, len(matched))
	for _, stored := range matched {
		doc := stored.doc
		r.attachAuthor(ctx, &doc)
		result = append(result, doc)
	}
	return result, nil
}

func (r *DocumentRepository) Update(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.docs[doc.ID]
	if !ok {
		return repository.ErrNotFound
	}

	// updated_at must strictly advance even when the clock has not ticked
	// between two writes.
	now := time.Now()
	if !now.After(stored.doc.UpdatedAt) {
		now = stored.doc.UpdatedAt.Add(time.Nanosecond)
	}

	updated := *doc
	updated.CreatedAt = stored.doc.CreatedAt
	updated.AuthorID = stored.doc.AuthorID
	updated.UpdatedAt = now
	updated.Author = nil
	r.docs[doc.ID] = storedDocument{doc: updated, seq: stored.seq}
	doc.UpdatedAt = now
	return nil
}

func (r *DocumentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *DocumentRepository) attachAuthor(ctx context.Context, doc *domain.Document) {
	if r.users == nil {
		return
	}
	author, err := r.users.GetByID(ctx, doc.AuthorID)
	if err != nil {
		return
	}
	doc.Author = author
}
