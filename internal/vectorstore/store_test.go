package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestLoadAllPagesToCompletion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(3) // force multiple pages

	for i := 0; i < 10; i++ {
		r := rec(fmt.Sprintf("c%02d", i), "doc1", float32(i), 1)
		if err := store.Put(ctx, r); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	all, err := LoadAll(ctx, store)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("len = %d, want 10", len(all))
	}
	for i, r := range all {
		if want := fmt.Sprintf("c%02d", i); r.ChunkID != want {
			t.Errorf("all[%d] = %s, want %s", i, r.ChunkID, want)
		}
	}
}

func TestLoadAllEmptyStore(t *testing.T) {
	all, err := LoadAll(context.Background(), NewMemoryStore(0))
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len = %d, want 0", len(all))
	}
}

// failingStore fails after serving a number of pages.
type failingStore struct {
	*MemoryStore
	failAfter int
	pages     int
}

func (f *failingStore) Scan(ctx context.Context, startToken string) ([]EmbeddingRecord, string, error) {
	if f.pages >= f.failAfter {
		return nil, "", fmt.Errorf("%w: connection refused", ErrUnavailable)
	}
	f.pages++
	return f.MemoryStore.Scan(ctx, startToken)
}

func TestLoadAllMidScanFailure(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore(2)
	for i := 0; i < 6; i++ {
		if err := mem.Put(ctx, rec(fmt.Sprintf("c%d", i), "doc1", 1, 0)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	all, err := LoadAll(ctx, &failingStore{MemoryStore: mem, failAfter: 1})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	// Earlier pages must not leak out as a complete result.
	if all != nil {
		t.Errorf("got partial results: %d records", len(all))
	}
}

func TestMemoryStoreDeleteByDocument(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	for i := 0; i < 4; i++ {
		if err := store.Put(ctx, rec(fmt.Sprintf("a%d", i), "doc-a", 1, 0)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := store.Put(ctx, rec(fmt.Sprintf("b%d", i), "doc-b", 0, 1)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	n, err := store.DeleteByDocument(ctx, "doc-a")
	if err != nil {
		t.Fatalf("DeleteByDocument: %v", err)
	}
	if n != 4 {
		t.Errorf("deleted = %d, want 4", n)
	}

	remaining, err := LoadAll(ctx, store)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(remaining) != 3 {
		t.Fatalf("remaining = %d, want 3", len(remaining))
	}
	for _, r := range remaining {
		if r.DocumentID != "doc-b" {
			t.Errorf("unexpected survivor %s from %s", r.ChunkID, r.DocumentID)
		}
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	if err := store.Put(ctx, rec("c1", "doc-a", 1, 0)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, rec("c1", "doc-a", 0, 1)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	all, err := LoadAll(ctx, store)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
	if all[0].Embedding[0] != 0 || all[0].Embedding[1] != 1 {
		t.Errorf("record not replaced: %v", all[0].Embedding)
	}
}
