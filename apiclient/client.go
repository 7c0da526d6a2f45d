package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/docuchat/docuchat-go/log"
)

const defaultBaseURL = "http://localhost:8000"

// TokenSource yields the access token attached to outgoing requests.
// An empty string means the request is sent unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

// AccessToken implements TokenSource.
func (t StaticToken) AccessToken() string { return string(t) }

// Client is an HTTP client for the docuchat platform API gateway.
// It attaches bearer credentials, normalizes failures into *APIError and
// never mutates session state itself; callers decide what to do with 401s.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     log.Logger
}

// Option is a function that configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     log.Logger
}

// WithBaseURL sets the base URL of the API gateway.
func WithBaseURL(baseURL string) Option {
	return func(opts *clientOptions) {
		opts.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *clientOptions) {
		opts.httpClient = client
	}
}

// WithTokenSource sets the source of bearer credentials.
func WithTokenSource(tokens TokenSource) Option {
	return func(opts *clientOptions) {
		opts.tokens = tokens
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger log.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// New creates a new Client with the given options.
func New(opts ...Option) *Client {
	options := &clientOptions{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     log.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(options.baseURL, "/"),
		httpClient: options.httpClient,
		tokens:     options.tokens,
		logger:     options.logger,
	}
}

// SetTokenSource replaces the source of bearer credentials. Used to break the
// construction cycle between the client and the session manager.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// Do sends a JSON request and decodes the JSON response into out.
// A nil body sends no payload; a nil out discards the response body.
// Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	c.logger.Debug("%s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, respBody)
		c.logger.Debug("%s %s failed: %v", method, path, apiErr)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// HealthStatus is the gateway health check response.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Health checks the API gateway health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.Get(ctx, "/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}
