package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/askdocs/knowledgebase/internal/documents"
	"github.com/askdocs/knowledgebase/internal/embeddings"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

// StatusSetter records a document's progress through the pipeline.
type StatusSetter interface {
	SetStatus(ctx context.Context, id string, status documents.Status) error
}

// Service turns a document's text into stored embedding records.
type Service struct {
	embedder  embeddings.Embedder
	store     vectorstore.Store
	statuses  StatusSetter
	chunkSize int
	overlap   int
}

// New creates an ingestion service with default chunking parameters.
func New(embedder embeddings.Embedder, store vectorstore.Store, statuses StatusSetter) *Service {
	return &Service{
		embedder:  embedder,
		store:     store,
		statuses:  statuses,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
}

// IngestText chunks the text, embeds every chunk, and writes one embedding
// record per chunk keyed as {documentID}_chunk_{index}. The document status
// moves PROCESSING -> COMPLETED, or FAILED on any error.
func (s *Service) IngestText(ctx context.Context, doc documents.Document, text string) (int, error) {
	if err := s.statuses.SetStatus(ctx, doc.ID, documents.StatusProcessing); err != nil {
		return 0, fmt.Errorf("marking %s processing: %w", doc.ID, err)
	}

	n, err := s.ingest(ctx, doc, text)
	if err != nil {
		if serr := s.statuses.SetStatus(ctx, doc.ID, documents.StatusFailed); serr != nil {
			log.Printf("ingest: marking %s failed: %v", doc.ID, serr)
		}
		return n, err
	}

	if err := s.statuses.SetStatus(ctx, doc.ID, documents.StatusCompleted); err != nil {
		return n, fmt.Errorf("marking %s completed: %w", doc.ID, err)
	}
	return n, nil
}

func (s *Service) ingest(ctx context.Context, doc documents.Document, text string) (int, error) {
	chunks := Chunk(text, s.chunkSize, s.overlap)
	if len(chunks) == 0 {
		log.Printf("ingest: document %s has no text to index", doc.ID)
		return 0, nil
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embedding %d chunks of %s: %w", len(chunks), doc.ID, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding %s: got %d vectors for %d chunks", doc.ID, len(vectors), len(chunks))
	}

	for i, chunk := range chunks {
		rec := vectorstore.EmbeddingRecord{
			ChunkID:    fmt.Sprintf("%s_chunk_%d", doc.ID, i),
			DocumentID: doc.ID,
			FileName:   doc.FileName,
			Text:       chunk,
			Embedding:  vectors[i],
		}
		if err := s.store.Put(ctx, rec); err != nil {
			return i, fmt.Errorf("storing chunk %d of %s: %w", i, doc.ID, err)
		}
	}

	log.Printf("ingest: stored %d chunks for document %s (%s)", len(chunks), doc.ID, doc.FileName)
	return len(chunks), nil
}
