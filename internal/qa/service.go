package qa

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/askdocs/knowledgebase/internal/llm"
	"github.com/askdocs/knowledgebase/internal/search"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

// ErrNoRelevantDocuments means the similarity search came back empty, so
// there is nothing to ground an answer on. A user-visible condition, not a
// system failure; the chat provider is never called in this case.
var ErrNoRelevantDocuments = errors.New("no relevant documents found")

const systemPrompt = "You are a helpful AI assistant. Answer questions based on the provided documents. " +
	"If the documents don't contain enough information to answer the question, " +
	"say so honestly. Always be concise and accurate."

// Searcher is the similarity search dependency.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]vectorstore.Match, error)
}

// Answer is a grounded response with the chunks it was built from.
type Answer struct {
	Question string              `json:"question"`
	Answer   string              `json:"answer"`
	Model    string              `json:"model"`
	Sources  []vectorstore.Match `json:"sources"`
}

// Service answers natural-language questions over the uploaded documents.
type Service struct {
	searcher Searcher
	provider llm.Provider
	model    string
}

// New creates a question-answering service.
func New(searcher Searcher, provider llm.Provider, model string) *Service {
	return &Service{searcher: searcher, provider: provider, model: model}
}

// Answer finds the maxSources most relevant chunks, builds a context block
// from them, and asks the chat model the question against that context.
func (s *Service) Answer(ctx context.Context, question string, maxSources int) (*Answer, error) {
	results, err := s.searcher.Search(ctx, question, maxSources)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoRelevantDocuments
	}
	log.Printf("qa: answering from %d source chunks", len(results))

	contextBlock := search.BuildContext(results)
	userMessage := contextBlock + "\n\nQuestion: " + question + "\n\nPlease answer based on the documents above."

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: userMessage},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("completing answer: %w", err)
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}
	return &Answer{
		Question: question,
		Answer:   resp.Content,
		Model:    model,
		Sources:  results,
	}, nil
}
