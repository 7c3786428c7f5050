package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/askdocs/knowledgebase/internal/blob"
	"github.com/askdocs/knowledgebase/internal/events"
	"github.com/askdocs/knowledgebase/internal/sweeper"
)

const maxUploadBytes = 32 << 20

// EmbeddingCleaner removes a document's chunks from the embedding store.
type EmbeddingCleaner interface {
	DeleteForDocument(ctx context.Context, documentID string) (int, error)
}

// OrphanSweeper reconciles the embedding store against live documents.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context) (sweeper.Report, error)
}

// Ingester indexes a document's text into the embedding store.
type Ingester interface {
	IngestText(ctx context.Context, doc Document, text string) (int, error)
}

// Handler serves the document management API.
type Handler struct {
	store    *Store
	blobs    blob.Storage
	events   events.Publisher
	cleaner  EmbeddingCleaner
	sweeper  OrphanSweeper
	ingester Ingester
	bucket   string
}

// NewHandler wires the document API against its collaborators.
func NewHandler(store *Store, blobs blob.Storage, publisher events.Publisher, cleaner EmbeddingCleaner, orphans OrphanSweeper, ingester Ingester, bucket string) *Handler {
	return &Handler{
		store:    store,
		blobs:    blobs,
		events:   publisher,
		cleaner:  cleaner,
		sweeper:  orphans,
		ingester: ingester,
		bucket:   bucket,
	}
}

// RegisterRoutes mounts the document API routes.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/documents", func(r chi.Router) {
		r.Post("/upload", h.handleUpload)
		r.Get("/", h.handleList)
		r.Get("/user/{userID}", h.handleListByUser)
		r.Get("/{id}", h.handleGet)
		r.Get("/{id}/download", h.handleDownload)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/cleanup-embeddings", h.handleCleanup)
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	userID := r.FormValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading file")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "File is empty")
		return
	}

	contentType := mediaType(header.Header.Get("Content-Type"))
	if contentType != "application/pdf" && contentType != "text/plain" {
		writeError(w, http.StatusBadRequest, "Only PDF and TXT files are supported")
		return
	}

	docID := uuid.New().String()
	key := fmt.Sprintf("%s/%s/%s", userID, docID, header.Filename)

	if err := h.blobs.Put(r.Context(), key, data, contentType); err != nil {
		log.Printf("upload: storing %s: %v", key, err)
		writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	doc, err := h.store.Save(r.Context(), Document{
		ID:          docID,
		UserID:      userID,
		FileName:    header.Filename,
		StorageKey:  key,
		Size:        int64(len(data)),
		ContentType: contentType,
		Status:      StatusUploaded,
	})
	if err != nil {
		log.Printf("upload: saving metadata for %s: %v", docID, err)
		writeError(w, http.StatusInternalServerError, "failed to save document")
		return
	}

	if err := h.events.DocumentUploaded(r.Context(), events.UploadedEvent{
		DocumentID: doc.ID,
		StorageKey: key,
		Bucket:     h.bucket,
		FileName:   doc.FileName,
		UploadedBy: userID,
		Timestamp:  time.Now().UnixMilli(),
	}); err != nil {
		// The event feeds the external pipeline; the upload itself succeeded.
		log.Printf("upload: publishing event for %s: %v", doc.ID, err)
	}

	// Plain text is indexed inline; PDFs are left to the external pipeline.
	if contentType == "text/plain" && h.ingester != nil {
		if _, err := h.ingester.IngestText(r.Context(), *doc, string(data)); err != nil {
			log.Printf("upload: indexing %s: %v", doc.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Document uploaded successfully",
		"documentId": doc.ID,
		"fileName":   doc.FileName,
		"fileSize":   doc.Size,
		"uploadDate": doc.UploadedAt,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context())
	if err != nil {
		log.Printf("listing documents: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		log.Printf("listing documents by user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		log.Printf("getting document: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		log.Printf("getting document: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return
	}

	data, err := h.blobs.Get(r.Context(), doc.StorageKey)
	if err != nil {
		log.Printf("download: fetching %s: %v", doc.StorageKey, err)
		writeError(w, http.StatusInternalServerError, "failed to download document")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		log.Printf("getting document: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	// Embedding cleanup must not block the delete; orphans left behind are
	// the sweeper's job.
	if n, err := h.cleaner.DeleteForDocument(r.Context(), id); err != nil {
		log.Printf("delete: cleaning embeddings for %s after %d deletes: %v", id, n, err)
	}

	if err := h.blobs.Delete(r.Context(), doc.StorageKey); err != nil {
		log.Printf("delete: removing %s: %v", doc.StorageKey, err)
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		log.Printf("delete: removing metadata for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Document deleted successfully",
		"id":       id,
		"fileName": doc.FileName,
	})
}

func (h *Handler) handleCleanup(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweeper.SweepOrphans(r.Context())
	if err != nil {
		log.Printf("cleanup: %v", err)
		writeError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Cleanup completed",
		"totalEmbeddings": report.TotalScanned,
		"orphansDeleted":  report.OrphansDeleted,
		"deleteFailures":  report.DeleteFailures,
		"remaining":       report.TotalScanned - report.OrphansDeleted,
	})
}

// mediaType strips parameters like "; charset=utf-8" from a Content-Type.
func mediaType(ct string) string {
	return strings.TrimSpace(strings.Split(ct, ";")[0])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
