package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/askdocs/knowledgebase/internal/db"
	"github.com/askdocs/knowledgebase/internal/documents"
	"github.com/askdocs/knowledgebase/internal/llm"
	"github.com/askdocs/knowledgebase/internal/qa"
	"github.com/askdocs/knowledgebase/internal/search"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

// mockEmbedder maps every text to a fixed unit vector so every stored chunk
// matches every query with similarity 1.
type mockEmbedder struct{}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{1, 0, 0}
	}
	return result, nil
}

func (m *mockEmbedder) EmbedOne(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }
func (m *mockEmbedder) Name() string    { return "mock" }

type mockProvider struct {
	lastRequest llm.CompletionRequest
}

func (m *mockProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.lastRequest = req
	return &llm.CompletionResponse{Content: "the answer", Model: req.Model}, nil
}

func (m *mockProvider) Name() string { return "mock" }

func newTestMCPServer(t *testing.T, records []vectorstore.EmbeddingRecord, docs []documents.Document) *Server {
	t.Helper()
	store := vectorstore.NewMemoryStore(0)
	ctx := context.Background()
	for _, r := range records {
		if err := store.Put(ctx, r); err != nil {
			t.Fatalf("seeding embedding store: %v", err)
		}
	}

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	docStore := documents.NewStore(database)
	for _, d := range docs {
		if _, err := docStore.Save(ctx, d); err != nil {
			t.Fatalf("seeding document store: %v", err)
		}
	}

	searchSvc := search.New(&mockEmbedder{}, store, nil)
	qaSvc := qa.New(searchSvc, &mockProvider{}, "test-model")
	return NewServer(searchSvc, qaSvc, docStore)
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_documents", searchDocumentsTool, "search_documents"},
		{"ask_question", askQuestionTool, "ask_question"},
		{"list_documents", listDocumentsTool, "list_documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestHandleSearchDocuments(t *testing.T) {
	srv := newTestMCPServer(t, []vectorstore.EmbeddingRecord{
		{ChunkID: "d1_chunk_0", DocumentID: "d1", FileName: "notes.txt", Text: "Deployments run nightly.", Embedding: []float32{1, 0, 0}},
	}, nil)
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query": "deployments",
		}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "notes.txt") {
			t.Errorf("result missing file name: %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("empty store", func(t *testing.T) {
		emptySrv := newTestMCPServer(t, nil, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query": "anything",
		}

		result, err := emptySrv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})
}

func TestHandleAskQuestion(t *testing.T) {
	srv := newTestMCPServer(t, []vectorstore.EmbeddingRecord{
		{ChunkID: "d1_chunk_0", DocumentID: "d1", FileName: "runbook.txt", Text: "Restart the worker pool first.", Embedding: []float32{1, 0, 0}},
	}, nil)
	ctx := context.Background()

	t.Run("answer with sources", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "what do I restart first?",
		}

		result, err := srv.handleAskQuestion(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "the answer") {
			t.Errorf("result missing answer: %q", text)
		}
		if !strings.Contains(text, "runbook.txt") {
			t.Errorf("result missing source citation: %q", text)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskQuestion(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})

	t.Run("no relevant documents", func(t *testing.T) {
		emptySrv := newTestMCPServer(t, nil, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "anything",
		}

		result, err := emptySrv.handleAskQuestion(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("no relevant documents should be a text response, not a tool error")
		}
	})
}

func TestHandleListDocuments(t *testing.T) {
	srv := newTestMCPServer(t, nil, []documents.Document{
		{ID: "d1", UserID: "alice", FileName: "a.txt", Status: documents.StatusCompleted},
		{ID: "d2", UserID: "bob", FileName: "b.pdf", Status: documents.StatusProcessing},
	})
	ctx := context.Background()

	t.Run("all documents", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleListDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "a.txt") || !strings.Contains(text, "b.pdf") {
			t.Errorf("listing missing documents: %q", text)
		}
	})

	t.Run("filtered by user", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"user_id": "alice",
		}

		result, err := srv.handleListDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "a.txt") {
			t.Errorf("listing missing alice's document: %q", text)
		}
		if strings.Contains(text, "b.pdf") {
			t.Errorf("listing leaked bob's document: %q", text)
		}
	})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return tc.Text
}
