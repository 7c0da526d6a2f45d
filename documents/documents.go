package documents

import (
	"time"
)

// Status is the processing lifecycle of a document. Transitions only move
// forward; the backend never documents a transition back to an earlier
// status.
type Status string

const (
	// StatusPending means the file is uploaded but not yet processed.
	StatusPending Status = "pending"

	// StatusProcessing means chunking and embedding are in progress.
	StatusProcessing Status = "processing"

	// StatusCompleted means the document is searchable.
	StatusCompleted Status = "completed"

	// StatusFailed means processing failed; ProcessingError carries the cause.
	StatusFailed Status = "failed"
)

// Document is the backend's document record. The client holds a read-mostly
// cached copy; the backend owns canonical state.
type Document struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Filename        string     `json:"filename"`
	FileSize        int64      `json:"file_size"`
	MimeType        *string    `json:"mime_type"`
	Status          Status     `json:"status"`
	ProcessingError *string    `json:"processing_error"`
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	ProcessedAt     *time.Time `json:"processed_at"`
}

// ListPage is the paginated envelope of GET /api/documents/.
type ListPage struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}

// ProcessResponse is the acknowledgement of a processing request. It confirms
// acceptance only; the status transition is observed via a later Reload.
type ProcessResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// DownloadLink is a short-lived presigned URL for the original file.
type DownloadLink struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`

	// Some gateway deployments return the URL under this key instead.
	DownloadURL string `json:"download_url"`
}

// Href returns whichever URL field the backend populated.
func (l *DownloadLink) Href() string {
	if l.URL != "" {
		return l.URL
	}
	return l.DownloadURL
}
