package events

import "context"

// UploadedEvent is the payload published when a document upload completes.
type UploadedEvent struct {
	EventType  string `json:"eventType"`
	DocumentID string `json:"documentId"`
	StorageKey string `json:"s3Key"`
	Bucket     string `json:"s3Bucket"`
	FileName   string `json:"fileName"`
	UploadedBy string `json:"uploadedBy"`
	Timestamp  int64  `json:"timestamp"`
}

// EventTypeDocumentUploaded is the eventType value for UploadedEvent.
const EventTypeDocumentUploaded = "DOCUMENT_UPLOADED"

// Publisher broadcasts document lifecycle events to downstream consumers.
// Publish failures are the caller's to log; they never fail the upload.
type Publisher interface {
	DocumentUploaded(ctx context.Context, event UploadedEvent) error
}

// NopPublisher discards all events. The default when no topic is configured.
type NopPublisher struct{}

func (NopPublisher) DocumentUploaded(context.Context, UploadedEvent) error { return nil }
