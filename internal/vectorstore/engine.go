package vectorstore

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidTopK is returned when a ranking is requested with topK <= 0.
	ErrInvalidTopK = errors.New("topK must be positive")

	// ErrDimensionMismatch indicates a stored vector does not match the query
	// vector's dimensionality, usually after an embedding model change.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Ranker orders candidate records by relevance to a query vector.
type Ranker interface {
	Rank(query []float32, candidates []EmbeddingRecord, topK int) ([]Match, error)
}

// CosineRanker ranks by brute-force cosine similarity over every candidate.
// O(N*D) per call; fine while the corpus stays in the low thousands of chunks.
type CosineRanker struct{}

// Rank computes cosine similarity between the query and every candidate,
// sorts descending, and truncates to min(topK, len(candidates)). The sort is
// stable so ties keep scan order and results stay reproducible. A candidate
// with a different dimensionality than the query fails the whole call.
func (CosineRanker) Rank(query []float32, candidates []EmbeddingRecord, topK int) ([]Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, topK)
	}
	if len(candidates) == 0 {
		return []Match{}, nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Embedding) != len(query) {
			return nil, fmt.Errorf("%w: chunk %s has %d dimensions, query has %d",
				ErrDimensionMismatch, c.ChunkID, len(c.Embedding), len(query))
		}
		matches = append(matches, Match{
			ChunkID:    c.ChunkID,
			DocumentID: c.DocumentID,
			FileName:   c.FileName,
			Text:       c.Text,
			Similarity: cosineSimilarity(query, c.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// cosineSimilarity computes dot(a,b) / (|a|*|b|) with float64 accumulation.
// If either vector has zero magnitude the similarity is defined as 0; a NaN
// here would corrupt the sort order downstream.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
