package search

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

const defaultTopK = 5

// RegisterRoutes mounts the search API routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/search", handleSearch(svc))
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

type searchResponse struct {
	Query   string              `json:"query"`
	TopK    int                 `json:"topK"`
	Count   int                 `json:"count"`
	Results []vectorstore.Match `json:"results"`
}

func handleSearch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.TopK == 0 {
			req.TopK = defaultTopK
		}

		results, err := svc.Search(r.Context(), req.Query, req.TopK)
		if err != nil {
			writeSearchError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{
			Query:   req.Query,
			TopK:    req.TopK,
			Count:   len(results),
			Results: results,
		})
	}
}

func writeSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyQuery), errors.Is(err, vectorstore.ErrInvalidTopK):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	default:
		log.Printf("search failed: %v", err)
		http.Error(w, `{"error":"search failed"}`, http.StatusInternalServerError)
	}
}
