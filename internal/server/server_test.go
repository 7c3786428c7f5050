package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/askdocs/knowledgebase/internal/blob"
	"github.com/askdocs/knowledgebase/internal/db"
	"github.com/askdocs/knowledgebase/internal/documents"
	"github.com/askdocs/knowledgebase/internal/events"
	"github.com/askdocs/knowledgebase/internal/ingest"
	"github.com/askdocs/knowledgebase/internal/llm"
	"github.com/askdocs/knowledgebase/internal/qa"
	"github.com/askdocs/knowledgebase/internal/search"
	"github.com/askdocs/knowledgebase/internal/sweeper"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

// hashEmbedder produces deterministic vectors so similar texts rank together.
type hashEmbedder struct{ dims int }

func (m *hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vector(text)
	}
	return out, nil
}

func (m *hashEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	return m.vector(text), nil
}

func (m *hashEmbedder) Dimensions() int { return m.dims }
func (m *hashEmbedder) Name() string    { return "hash" }

func (m *hashEmbedder) vector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		vec[(int(ch)+i)%m.dims] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

type cannedProvider struct{}

func (cannedProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: "canned answer", Model: req.Model}, nil
}

func (cannedProvider) Name() string { return "canned" }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	embedder := &hashEmbedder{dims: 32}
	embStore := vectorstore.NewMemoryStore(0)
	docStore := documents.NewStore(database)

	searchSvc := search.New(embedder, embStore, nil)
	qaSvc := qa.New(searchSvc, cannedProvider{}, "test-model")
	sw := sweeper.New(embStore, docStore)
	ingester := ingest.New(embedder, embStore, docStore)

	docs := documents.NewHandler(docStore, blob.NewMemoryStorage(), events.NopPublisher{}, sw, sw, ingester, "test-bucket")
	return New(Config{Port: 0, AllowAll: true}, docs, searchSvc, qaSvc)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUploadSearchAskFlow(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="facts.txt"`)
	hdr.Set("Content-Type", "text/plain")
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	part.Write([]byte("The warehouse inventory system runs nightly reconciliation."))
	w.WriteField("userId", "alice")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(`{"query":"warehouse inventory"}`))
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var sr struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sr); err != nil {
		t.Fatalf("decoding search response: %v", err)
	}
	if sr.Count == 0 {
		t.Fatal("search found nothing after upload")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/qa", bytes.NewBufferString(`{"question":"what runs nightly?"}`))
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("qa status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var ans struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ans); err != nil {
		t.Fatalf("decoding qa response: %v", err)
	}
	if ans.Answer != "canned answer" {
		t.Errorf("answer = %q", ans.Answer)
	}
}
