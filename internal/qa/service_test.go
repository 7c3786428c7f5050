package qa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/askdocs/knowledgebase/internal/llm"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

type stubSearcher struct {
	matches []vectorstore.Match
	err     error
}

func (s *stubSearcher) Search(_ context.Context, _ string, topK int) ([]vectorstore.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	if topK < len(s.matches) {
		return s.matches[:topK], nil
	}
	return s.matches, nil
}

type stubProvider struct {
	lastReq llm.CompletionRequest
	reply   string
	err     error
	calls   int
}

func (p *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.reply, Model: req.Model}, nil
}

func (p *stubProvider) Name() string { return "stub" }

func sampleMatches() []vectorstore.Match {
	return []vectorstore.Match{
		{ChunkID: "c1", DocumentID: "d1", FileName: "guide.txt", Text: "the sky is blue", Similarity: 0.91},
		{ChunkID: "c2", DocumentID: "d2", FileName: "faq.txt", Text: "grass is green", Similarity: 0.42},
	}
}

func TestAnswerBuildsContextAndCallsProvider(t *testing.T) {
	provider := &stubProvider{reply: "The sky is blue."}
	svc := New(&stubSearcher{matches: sampleMatches()}, provider, "gpt-4o-mini")

	ans, err := svc.Answer(context.Background(), "what color is the sky?", 5)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Answer != "The sky is blue." {
		t.Errorf("Answer = %q", ans.Answer)
	}
	if ans.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", ans.Model)
	}
	if len(ans.Sources) != 2 {
		t.Errorf("Sources = %d, want 2", len(ans.Sources))
	}

	if len(provider.lastReq.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(provider.lastReq.Messages))
	}
	if provider.lastReq.Messages[0].Role != llm.RoleSystem {
		t.Errorf("first message role = %s", provider.lastReq.Messages[0].Role)
	}
	user := provider.lastReq.Messages[1].Content
	if !strings.Contains(user, "Document 1 (guide.txt, similarity: 0.91):\nthe sky is blue") {
		t.Errorf("context block missing from user message: %q", user)
	}
	if !strings.Contains(user, "Question: what color is the sky?") {
		t.Errorf("question missing from user message: %q", user)
	}
	if provider.lastReq.MaxTokens != 1000 || provider.lastReq.Temperature != 0.7 {
		t.Errorf("request params = %d tokens, temp %v", provider.lastReq.MaxTokens, provider.lastReq.Temperature)
	}
}

func TestAnswerNoResultsSkipsProvider(t *testing.T) {
	provider := &stubProvider{reply: "should never be used"}
	svc := New(&stubSearcher{}, provider, "gpt-4o-mini")

	_, err := svc.Answer(context.Background(), "anything", 5)
	if !errors.Is(err, ErrNoRelevantDocuments) {
		t.Fatalf("err = %v, want ErrNoRelevantDocuments", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times with empty context", provider.calls)
	}
}

func TestAnswerProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	svc := New(&stubSearcher{matches: sampleMatches()}, provider, "gpt-4o-mini")

	if _, err := svc.Answer(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error")
	}
}

func TestHandleAsk(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, New(&stubSearcher{matches: sampleMatches()}, &stubProvider{reply: "blue"}, "gpt-4o-mini"))

	req := httptest.NewRequest(http.MethodPost, "/api/qa", strings.NewReader(`{"question":"sky color?"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"answer":"blue"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleAskNoRelevantDocuments(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, New(&stubSearcher{}, &stubProvider{}, "gpt-4o-mini"))

	req := httptest.NewRequest(http.MethodPost, "/api/qa", strings.NewReader(`{"question":"sky color?"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
