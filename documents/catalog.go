package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/docuchat/docuchat-go/apiclient"
	"github.com/docuchat/docuchat-go/log"
)

// MaxFileSize is the upload size ceiling enforced before any network call.
const MaxFileSize = 10 << 20 // 10 MiB

// AllowedExtensions are the file extensions accepted for upload, compared
// case-insensitively and without the leading dot.
var AllowedExtensions = []string{"pdf", "txt", "doc", "docx", "md"}

var (
	// ErrInvalidFileType is returned for uploads with an unaccepted extension.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrFileTooLarge is returned for uploads above MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")
)

const listPageSize = 50

// Catalog fetches, lists and mutates the user's document set. It owns a local
// cache of the list, replaced wholesale by Reload; every mutating operation
// ends in a Reload, so the cache is eventually consistent regardless of
// completion order. Operations never retry automatically.
type Catalog struct {
	client *apiclient.Client
	logger log.Logger

	mu   sync.RWMutex
	docs []Document
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the catalog's logger.
func WithLogger(logger log.Logger) CatalogOption {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// NewCatalog creates a document catalog over the given client.
func NewCatalog(client *apiclient.Client, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		client: client,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reload replaces the cached list with the server's current set, walking all
// pages. No incremental merge: full refetch keeps the cache coherent.
func (c *Catalog) Reload(ctx context.Context) error {
	var all []Document

	for page := 1; ; page++ {
		var result ListPage
		listPath := fmt.Sprintf("/api/documents/?page=%d&page_size=%d", page, listPageSize)
		if err := c.client.Get(ctx, listPath, &result); err != nil {
			return fmt.Errorf("list documents: %w", err)
		}

		all = append(all, result.Documents...)
		if len(result.Documents) == 0 || len(all) >= result.Total {
			break
		}
	}

	c.mu.Lock()
	c.docs = all
	c.mu.Unlock()

	c.logger.Debug("reloaded %d documents", len(all))
	return nil
}

// Documents returns a copy of the cached list.
func (c *Catalog) Documents() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	docs := make([]Document, len(c.docs))
	copy(docs, c.docs)
	return docs
}

// Completed returns the cached documents that finished processing; only these
// are searchable by the ask endpoint.
func (c *Catalog) Completed() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var completed []Document
	for _, doc := range c.docs {
		if doc.Status == StatusCompleted {
			completed = append(completed, doc)
		}
	}
	return completed
}

// Get fetches a single document record from the server.
func (c *Catalog) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := c.client.Get(ctx, "/api/documents/"+url.PathEscape(id), &doc); err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// ValidateFile checks filename and size against the accepted extension set
// and the size ceiling. It is called by Upload before any network I/O.
func ValidateFile(filename string, size int64) error {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" || !isAllowedExtension(ext) {
		return fmt.Errorf("%w: .%s (allowed: %s)", ErrInvalidFileType, ext, strings.Join(AllowedExtensions, ", "))
	}
	if size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, MaxFileSize)
	}
	return nil
}

func isAllowedExtension(ext string) bool {
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Upload validates the file locally, streams it to the backend with progress
// reporting and reloads the list on success. Validation failures never reach
// the network layer.
func (c *Catalog) Upload(ctx context.Context, filename string, r io.Reader, size int64, onProgress func(percent int)) (*Document, error) {
	if err := ValidateFile(filename, size); err != nil {
		return nil, err
	}

	var doc Document
	if err := c.client.Upload(ctx, "/api/documents/upload", filename, r, size, onProgress, &doc); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	c.logger.Info("uploaded %s (%d bytes) as %s", filename, size, doc.ID)

	if err := c.Reload(ctx); err != nil {
		return &doc, err
	}
	return &doc, nil
}

// RequestProcessing asks the backend to chunk and embed the document. It does
// not poll for completion; only acceptance is guaranteed, and the status
// transition shows up in a later Reload.
func (c *Catalog) RequestProcessing(ctx context.Context, id string) (*ProcessResponse, error) {
	var resp ProcessResponse
	if err := c.client.Post(ctx, "/api/documents/"+url.PathEscape(id)+"/process", nil, &resp); err != nil {
		return nil, fmt.Errorf("request processing: %w", err)
	}
	c.logger.Info("processing requested for %s: %s", id, resp.Message)
	return &resp, nil
}

// Delete removes a document and reloads the list. Destructive; the caller is
// expected to have confirmed the action.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.client.Delete(ctx, "/api/documents/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	c.logger.Info("deleted document %s", id)
	return c.Reload(ctx)
}

// Update changes the document's title and/or description. Nil fields are left
// untouched.
func (c *Catalog) Update(ctx context.Context, id string, title, description *string) (*Document, error) {
	req := struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
	}{Title: title, Description: description}

	var doc Document
	if err := c.client.Patch(ctx, "/api/documents/"+url.PathEscape(id), req, &doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	if err := c.Reload(ctx); err != nil {
		return &doc, err
	}
	return &doc, nil
}

// DownloadLink fetches a short-lived presigned URL for the original file.
func (c *Catalog) DownloadLink(ctx context.Context, id string) (*DownloadLink, error) {
	var link DownloadLink
	if err := c.client.Get(ctx, "/api/documents/"+url.PathEscape(id)+"/download", &link); err != nil {
		return nil, fmt.Errorf("get download link: %w", err)
	}
	return &link, nil
}
