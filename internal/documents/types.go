package documents

import "time"

// Status tracks a document through the ingestion pipeline.
type Status string

const (
	StatusUploaded   Status = "UPLOADED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Document is the metadata record for one uploaded file. The raw bytes live
// in object storage under StorageKey; the embedded chunks live in the
// embedding store keyed by this document's ID.
type Document struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	FileName    string    `json:"fileName"`
	StorageKey  string    `json:"storageKey"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Status      Status    `json:"status"`
}
