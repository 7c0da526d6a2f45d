package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorFromServer(t *testing.T, status int, body string) error {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	return client.Get(context.Background(), "/api/documents/", nil)
}

func TestDecodeStringDetail(t *testing.T) {
	err := errorFromServer(t, http.StatusUnauthorized, `{"detail":"Invalid or expired token"}`)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid or expired token", apiErr.Detail)
	assert.True(t, apiErr.IsAuthError())
}

func TestDecodeValidationDetail(t *testing.T) {
	err := errorFromServer(t, http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["body","question"],"msg":"field required","type":"value_error.missing"}]}`)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "body.question", apiErr.Fields[0].Path())
	assert.Equal(t, "field required", apiErr.Fields[0].Msg)
}

func TestDecodeNonJSONBody(t *testing.T) {
	err := errorFromServer(t, http.StatusBadGateway, `upstream timed out`)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Detail)
}

func TestFieldErrorPathWithIndexes(t *testing.T) {
	err := errorFromServer(t, http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["body","document_ids",0],"msg":"str type expected"}]}`)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "body.document_ids.0", apiErr.Fields[0].Path())
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		fallback string
		want     string
	}{
		{
			name:     "string detail shown verbatim",
			status:   http.StatusConflict,
			body:     `{"detail":"Document is already being processed"}`,
			fallback: "An error occurred",
			want:     "Document is already being processed",
		},
		{
			name:     "validation array uses first entry",
			status:   http.StatusUnprocessableEntity,
			body:     `{"detail":[{"loc":["body","question"],"msg":"field required"}]}`,
			fallback: "An error occurred",
			want:     "body.question: field required",
		},
		{
			name:     "validation entry without message",
			status:   http.StatusUnprocessableEntity,
			body:     `{"detail":[{"loc":["body","question"]}]}`,
			fallback: "An error occurred",
			want:     "Validation error occurred",
		},
		{
			name:     "object detail is json encoded",
			status:   http.StatusInternalServerError,
			body:     `{"detail":{"code":"EMBEDDING_FAILED"}}`,
			fallback: "An error occurred",
			want:     `{"code":"EMBEDDING_FAILED"}`,
		},
		{
			name:     "missing detail falls back to status text",
			status:   http.StatusServiceUnavailable,
			body:     `{}`,
			fallback: "An error occurred",
			want:     http.StatusText(http.StatusServiceUnavailable),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errorFromServer(t, tt.status, tt.body)
			assert.Equal(t, tt.want, FormatError(err, tt.fallback))
		})
	}
}

func TestFormatErrorFallbacks(t *testing.T) {
	assert.Equal(t, "fallback", FormatError(nil, "fallback"))
	assert.Equal(t, "fallback", FormatError(errors.New("dial tcp: refused"), "fallback"))

	// Wrapped API errors are still unwrapped.
	apiErr := &APIError{StatusCode: 403, Detail: "Forbidden resource"}
	wrapped := fmt.Errorf("list documents: %w", apiErr)
	assert.Equal(t, "Forbidden resource", FormatError(wrapped, "fallback"))
}

func TestAPIErrorString(t *testing.T) {
	err := &APIError{StatusCode: 422, Fields: []FieldError{{Loc: []any{"body", "question"}, Msg: "field required"}}}
	assert.Equal(t, "api error (status 422): body.question: field required", err.Error())

	err = &APIError{StatusCode: 401, Detail: "Invalid token"}
	assert.Equal(t, "api error (status 401): Invalid token", err.Error())

	err = &APIError{StatusCode: 500}
	assert.Equal(t, "api error (status 500)", err.Error())
}
