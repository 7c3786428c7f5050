package qa

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askdocs/knowledgebase/internal/search"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

const defaultMaxSources = 5

// RegisterRoutes mounts the question-answering API routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/qa", handleAsk(svc))
}

type askRequest struct {
	Question   string `json:"question"`
	MaxSources int    `json:"maxSources"`
}

func handleAsk(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.MaxSources == 0 {
			req.MaxSources = defaultMaxSources
		}

		answer, err := svc.Answer(r.Context(), req.Question, req.MaxSources)
		if err != nil {
			writeAskError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(answer)
	}
}

func writeAskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrEmptyQuery), errors.Is(err, vectorstore.ErrInvalidTopK):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	case errors.Is(err, ErrNoRelevantDocuments):
		http.Error(w, `{"error":"no relevant documents found"}`, http.StatusNotFound)
	default:
		log.Printf("qa failed: %v", err)
		http.Error(w, `{"error":"failed to process question"}`, http.StatusInternalServerError)
	}
}
