package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is one entry of a backend validation error array
// (FastAPI/Pydantic shape: {"loc": ["body", "question"], "msg": "field required"}).
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type,omitempty"`
}

// Path returns the dotted field path, e.g. "body.question".
func (e FieldError) Path() string {
	parts := make([]string, 0, len(e.Loc))
	for _, loc := range e.Loc {
		// Pydantic mixes strings and integer indexes in loc.
		if f, ok := loc.(float64); ok && f == float64(int64(f)) {
			parts = append(parts, fmt.Sprintf("%d", int64(f)))
			continue
		}
		parts = append(parts, fmt.Sprint(loc))
	}
	return strings.Join(parts, ".")
}

// APIError is the normalized failure shape for any non-2xx response.
// Exactly one of Detail, Fields or the raw detail is populated, depending on
// what the backend returned. A zero StatusCode indicates a transport-level
// failure with no HTTP response.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     []FieldError

	rawDetail json.RawMessage
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case len(e.Fields) > 0:
		return fmt.Sprintf("api error (status %d): %s: %s", e.StatusCode, e.Fields[0].Path(), e.Fields[0].Msg)
	case e.Detail != "":
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Detail)
	case len(e.rawDetail) > 0:
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, string(e.rawDetail))
	default:
		return fmt.Sprintf("api error (status %d)", e.StatusCode)
	}
}

// IsAuthError reports whether the failure is an authentication failure.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		apiErr.Detail = http.StatusText(status)
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var fields []FieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil && len(fields) > 0 {
		apiErr.Fields = fields
		return apiErr
	}

	apiErr.rawDetail = envelope.Detail
	return apiErr
}

// FormatError converts any error from the client into a human-readable,
// single-line message suitable for direct display:
//
//   - a string detail is shown verbatim
//   - a validation error array becomes "body.question: field required"
//     (first entry only)
//   - an object detail is shown JSON-encoded
//   - anything else, including transport failures, yields the fallback
func FormatError(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}

	if len(apiErr.Fields) > 0 {
		first := apiErr.Fields[0]
		if first.Msg == "" {
			return "Validation error occurred"
		}
		field := first.Path()
		if field == "" {
			field = "Unknown field"
		}
		return field + ": " + first.Msg
	}

	if apiErr.Detail != "" {
		return apiErr.Detail
	}

	if len(apiErr.rawDetail) > 0 {
		return string(apiErr.rawDetail)
	}

	return fallback
}
