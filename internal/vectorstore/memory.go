package vectorstore

import (
	"context"
	"strconv"
	"sync"
)

const defaultPageSize = 100

// MemoryStore is an in-memory Store with the same paging contract as the
// DynamoDB implementation. Used by tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	pageSize int
	order    []string // chunk IDs in insertion order
	records  map[string]EmbeddingRecord
}

// NewMemoryStore creates an empty store. pageSize <= 0 uses a default.
func NewMemoryStore(pageSize int) *MemoryStore {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &MemoryStore{
		pageSize: pageSize,
		records:  make(map[string]EmbeddingRecord),
	}
}

// Scan pages through records in insertion order. The continuation token is
// the offset of the next page.
func (m *MemoryStore) Scan(_ context.Context, startToken string) ([]EmbeddingRecord, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := 0
	if startToken != "" {
		n, err := strconv.Atoi(startToken)
		if err != nil {
			return nil, "", err
		}
		start = n
	}
	if start >= len(m.order) {
		return nil, "", nil
	}

	end := start + m.pageSize
	if end > len(m.order) {
		end = len(m.order)
	}

	page := make([]EmbeddingRecord, 0, end-start)
	for _, id := range m.order[start:end] {
		page = append(page, m.records[id])
	}

	next := ""
	if end < len(m.order) {
		next = strconv.Itoa(end)
	}
	return page, next, nil
}

func (m *MemoryStore) Put(_ context.Context, rec EmbeddingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.ChunkID]; !exists {
		m.order = append(m.order, rec.ChunkID)
	}
	m.records[rec.ChunkID] = rec
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, chunkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(chunkID)
	return nil
}

func (m *MemoryStore) DeleteByDocument(_ context.Context, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var doomed []string
	for _, id := range m.order {
		if m.records[id].DocumentID == documentID {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		m.remove(id)
	}
	return len(doomed), nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// remove must be called with the write lock held.
func (m *MemoryStore) remove(chunkID string) {
	if _, exists := m.records[chunkID]; !exists {
		return
	}
	delete(m.records, chunkID)
	for i, id := range m.order {
		if id == chunkID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
