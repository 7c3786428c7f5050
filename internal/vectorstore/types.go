package vectorstore

// EmbeddingRecord is one embedded chunk of one document as stored in the
// embeddings table. The document reference is by convention only; the store
// does not enforce it, which is why the sweeper exists.
type EmbeddingRecord struct {
	ChunkID    string
	DocumentID string
	FileName   string
	Text       string
	Embedding  []float32
}

// Match pairs a stored chunk with its similarity to a query vector.
// Similarity is cosine similarity, in [-1, 1].
type Match struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	FileName   string  `json:"file_name"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}
