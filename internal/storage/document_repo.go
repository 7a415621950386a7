package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks knowledge-rag/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// GetByPath gets a document by its relative path.
	// Returns nil and ErrNotFound if not found.
	GetByPath(ctx context.Context, path string) (*DocumentRecord, error)
	// Upsert inserts a new document or updates an existing one by path.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// Delete removes a document by ID. Chunks cascade.
	Delete(ctx context.Context, id string) error
	// ListPaths returns all stored document paths keyed by document ID.
	ListPaths(ctx context.Context) (map[string]string, error)
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// GetByPath gets a document by its relative path.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByPath(ctx context.Context, path string) (*DocumentRecord, error) {
	var doc DocumentRecord
	var indexedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, path, doc_type, hash, indexed_at FROM documents WHERE path = ?",
		path,
	).Scan(&doc.ID, &doc.Path, &doc.DocType, &doc.Hash, &indexedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc.IndexedAt, err = parseTimestamp(indexedAtStr)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// Upsert inserts a new document or updates an existing one.
// If the document does not exist (by path), a new UUID is generated;
// otherwise the existing ID is preserved and hash/type are updated.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	existing, err := r.GetByPath(ctx, doc.Path)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing == nil && doc.ID == "" {
		doc.ID = uuid.New().String()
	} else if existing != nil {
		doc.ID = existing.ID
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, path, doc_type, hash, indexed_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (path) DO UPDATE SET
		 doc_type = excluded.doc_type, hash = excluded.hash, indexed_at = CURRENT_TIMESTAMP`,
		doc.ID, doc.Path, doc.DocType, doc.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// Delete removes a document by ID. Associated chunks are removed by the
// ON DELETE CASCADE constraint.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// ListPaths returns all stored document paths keyed by document ID.
// Used by the indexer to prune documents removed from disk.
func (r *DocumentRepo) ListPaths(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, path FROM documents")
	if err != nil {
		return nil, fmt.Errorf("failed to query document paths: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	paths := make(map[string]string)
	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("failed to scan document path: %w", err)
		}
		paths[id] = path
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return paths, nil
}

// Count returns the number of stored documents.
func (r *DocumentRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// parseTimestamp parses a SQLite DATETIME string in either of the formats
// SQLite emits.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return t, nil
}
