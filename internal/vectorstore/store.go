package vectorstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable indicates the backing store could not be reached.
// LoadAll fails the whole call on any page error rather than returning a
// truncated candidate set, since a partial set would silently skew ranking.
var ErrUnavailable = errors.New("embedding store unavailable")

// Store is a paged key-value store of embedding records.
type Store interface {
	// Scan returns one page of records starting at the given continuation
	// token ("" for the first page), plus the token for the next page.
	// An empty next token means the scan is complete. Page size and record
	// ordering are the store's choice.
	Scan(ctx context.Context, startToken string) (page []EmbeddingRecord, nextToken string, err error)

	// Put inserts or replaces a record by its chunk ID.
	Put(ctx context.Context, rec EmbeddingRecord) error

	// Delete removes a record by chunk ID. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, chunkID string) error

	// DeleteByDocument removes all records belonging to the given document
	// and reports how many were deleted.
	DeleteByDocument(ctx context.Context, documentID string) (int, error)
}

// LoadAll scans the store to completion and materializes every record.
// An empty store yields an empty slice and no error.
func LoadAll(ctx context.Context, s Store) ([]EmbeddingRecord, error) {
	var all []EmbeddingRecord
	token := ""
	for {
		page, next, err := s.Scan(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("scanning embeddings: %w", err)
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		token = next
	}
}
