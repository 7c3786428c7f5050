package sweeper

import (
	"context"
	"fmt"
	"log"

	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

// DocumentIDLister provides the authoritative set of document IDs.
type DocumentIDLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// Report summarizes one sweep. DeleteFailures counts records that were
// identified as orphans but could not be deleted; the sweep continues past
// them so one bad record cannot wedge the whole cleanup.
type Report struct {
	TotalScanned   int `json:"totalEmbeddings"`
	OrphansDeleted int `json:"orphansDeleted"`
	DeleteFailures int `json:"deleteFailures"`
}

// Sweeper reconciles embedding records against the authoritative document
// set, removing records whose parent document no longer exists.
type Sweeper struct {
	store vectorstore.Store
	docs  DocumentIDLister
}

// New creates a sweeper over the given embedding store and document source.
func New(store vectorstore.Store, docs DocumentIDLister) *Sweeper {
	return &Sweeper{store: store, docs: docs}
}

// SweepOrphans deletes every embedding record referencing a document that no
// longer exists. The valid-id snapshot is taken once, up front; a document
// created concurrently with the sweep can be misidentified as orphaned. That
// race is accepted, not solved.
func (s *Sweeper) SweepOrphans(ctx context.Context) (Report, error) {
	ids, err := s.docs.ListIDs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("listing valid documents: %w", err)
	}
	valid := make(map[string]bool, len(ids))
	for _, id := range ids {
		valid[id] = true
	}

	records, err := vectorstore.LoadAll(ctx, s.store)
	if err != nil {
		return Report{}, fmt.Errorf("loading embeddings: %w", err)
	}

	report := Report{TotalScanned: len(records)}
	for _, rec := range records {
		if valid[rec.DocumentID] {
			continue
		}
		if err := s.store.Delete(ctx, rec.ChunkID); err != nil {
			report.DeleteFailures++
			log.Printf("sweep: deleting orphan chunk %s (doc %s): %v", rec.ChunkID, rec.DocumentID, err)
			continue
		}
		report.OrphansDeleted++
	}

	log.Printf("sweep: %d orphans deleted out of %d scanned (%d failures)",
		report.OrphansDeleted, report.TotalScanned, report.DeleteFailures)
	return report, nil
}

// DeleteForDocument removes only the given document's chunks. Callers treat
// a failure here as non-fatal: the parent document's deletion proceeds and
// the sweep picks up whatever was left behind.
func (s *Sweeper) DeleteForDocument(ctx context.Context, documentID string) (int, error) {
	n, err := s.store.DeleteByDocument(ctx, documentID)
	if err != nil {
		return n, fmt.Errorf("deleting embeddings for document %s: %w", documentID, err)
	}
	return n, nil
}
