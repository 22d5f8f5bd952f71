package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/docboard/internal/domain"
)

// DocumentFilter narrows listings. Nil fields are ignored; set fields are
// combined with AND.
type DocumentFilter struct {
	Status   *domain.Status
	Priority *domain.Priority
}

// DocumentRepository encapsulates document persistence. Reads join the
// authors so callers get the author summary in one round trip.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository instantiates repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documents (id, title, content, status, priority, author_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.Status,
		doc.Priority,
		doc.AuthorID,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
}

const documentColumns = `d.id, d.title, d.content, d.status, d.priority, d.author_id,
               d.created_at, d.updated_at,
               u.id, u.name, u.email, u.role, u.created_at`

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM documents d
        JOIN users u ON u.id = d.author_id
        WHERE d.id=$1`, documentColumns)

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return doc, nil
}

func (r *documentRepository) List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("d.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("d.priority=$%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM documents d
        JOIN users u ON u.id = d.author_id
        WHERE %s
        ORDER BY d.created_at DESC`, documentColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *doc)
	}
	return result, rows.Err()
}

func (r *documentRepository) Update(ctx context.Context, doc *domain.Document) error {
	const query = `
        UPDATE documents SET title=$1, content=$2, status=$3, priority=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		doc.Title,
		doc.Content,
		doc.Status,
		doc.Priority,
		doc.ID,
	).Scan(&doc.UpdatedAt)
	return mapNoRows(err)
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	var author domain.User
	if err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.Status,
		&doc.Priority,
		&doc.AuthorID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&author.ID,
		&author.Name,
		&author.Email,
		&author.Role,
		&author.CreatedAt,
	); err != nil {
		return nil, err
	}
	doc.Author = &author
	return &doc, nil
}
