package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/askdocs/knowledgebase/internal/db"
)

// ErrNotFound is returned when no document exists with the requested ID.
var ErrNotFound = errors.New("document not found")

// Store manages persistence of document metadata.
type Store struct {
	db *db.DB
}

// NewStore creates a new document metadata store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save inserts or replaces a document. A missing ID gets a fresh UUID; a zero
// upload time gets the current time.
func (s *Store) Save(ctx context.Context, doc Document) (*Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = StatusUploaded
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, user_id, file_name, storage_key, size, content_type, uploaded_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.UserID, doc.FileName, doc.StorageKey, doc.Size, doc.ContentType, doc.UploadedAt, doc.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return &doc, nil
}

// GetByID retrieves a document by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, file_name, storage_key, size, content_type, uploaded_at, status
		 FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}
	return doc, nil
}

// List returns all documents, newest first.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	return s.list(ctx,
		`SELECT id, user_id, file_name, storage_key, size, content_type, uploaded_at, status
		 FROM documents ORDER BY uploaded_at DESC`)
}

// ListByUser returns all documents owned by the given user, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	return s.list(ctx,
		`SELECT id, user_id, file_name, storage_key, size, content_type, uploaded_at, status
		 FROM documents WHERE user_id = ? ORDER BY uploaded_at DESC`, userID)
}

// ListIDs returns the set of valid document IDs, for the sweeper.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("listing document ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetStatus updates a document's processing status.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE documents SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating status of %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes a document's metadata record.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var doc Document
	err := row.Scan(&doc.ID, &doc.UserID, &doc.FileName, &doc.StorageKey,
		&doc.Size, &doc.ContentType, &doc.UploadedAt, &doc.Status)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}
