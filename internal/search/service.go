package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/askdocs/knowledgebase/internal/embeddings"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

// ErrEmptyQuery is returned for a blank search query, before any external call.
var ErrEmptyQuery = errors.New("query cannot be empty")

// Service answers similarity queries: it embeds the query text, loads every
// stored chunk, and ranks them. All state lives in the store, so concurrent
// searches need no coordination.
type Service struct {
	embedder embeddings.Embedder
	store    vectorstore.Store
	ranker   vectorstore.Ranker
}

// New creates a search service. A nil ranker defaults to brute-force cosine.
func New(embedder embeddings.Embedder, store vectorstore.Store, ranker vectorstore.Ranker) *Service {
	if ranker == nil {
		ranker = vectorstore.CosineRanker{}
	}
	return &Service{embedder: embedder, store: store, ranker: ranker}
}

// Search returns the topK stored chunks most similar to the query text,
// ordered by descending cosine similarity.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]vectorstore.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: got %d", vectorstore.ErrInvalidTopK, topK)
	}

	queryVec, err := s.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	candidates, err := vectorstore.LoadAll(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}
	log.Printf("search: ranking %d stored chunks", len(candidates))

	matches, err := s.ranker.Rank(queryVec, candidates, topK)
	if err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}
	return matches, nil
}
