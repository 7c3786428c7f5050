package ingest

import "strings"

const (
	// DefaultChunkSize is the maximum characters per chunk.
	DefaultChunkSize = 500
	// DefaultOverlap is the number of characters shared between adjacent chunks.
	DefaultOverlap = 50
)

// Chunk splits text into overlapping pieces of at most chunkSize characters,
// preferring to break at the last sentence boundary when one falls past the
// midpoint of the chunk. Empty text yields no chunks.
func Chunk(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := runes[start:end]

		// Break at a sentence boundary unless it sits too early in the chunk.
		if end < len(runes) {
			if cut := lastSentenceEnd(piece); cut > chunkSize/2 {
				piece = piece[:cut+1]
				end = start + cut + 1
			}
		}

		if chunk := strings.TrimSpace(string(piece)); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func lastSentenceEnd(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case '.', '?', '!':
			return i
		}
	}
	return -1
}
