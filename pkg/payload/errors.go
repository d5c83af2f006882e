package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a single error returned by the Payload API.
type APIError struct {
	Name    string       `json:"name,omitempty"` // e.g. "ValidationError", "NotFound"
	Message string       `json:"message"`
	Data    []FieldError `json:"data,omitempty"`
}

// FieldError describes one invalid field inside a validation error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}

	return e.Message
}

// ResponseError represents the error response from the API together with the
// HTTP status it arrived with.
type ResponseError struct {
	StatusCode int        `json:"-"`
	Errors     []APIError `json:"errors"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	return fmt.Sprintf("multiple errors: %v", e.Errors)
}

// FirstError returns the first error or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrBaseURLRequired    = errors.New("base URL is required")
	ErrCollectionRequired = errors.New("collection slug is required")
	ErrDocumentIDRequired = errors.New("document ID is required")
	ErrGlobalSlugRequired = errors.New("global slug is required")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	ErrNoMoreItems        = errors.New("no more items")
)

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}

// IsValidationError checks if the error is a Payload validation error.
func IsValidationError(err error) bool {
	errResp := &ResponseError{}
	if !errors.As(err, &errResp) {
		return false
	}

	first := errResp.FirstError()
	if first != nil && first.Name == "ValidationError" {
		return true
	}

	return errResp.StatusCode == http.StatusBadRequest
}

func statusOf(err error) int {
	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode
	}

	return 0
}

// ParseResponseError parses an error response body. A body that is not the
// documented errors envelope still produces a usable ResponseError carrying
// the status code.
func ParseResponseError(statusCode int, data []byte) *ResponseError {
	errResp := &ResponseError{StatusCode: statusCode}

	if len(data) > 0 {
		// Best effort: a non-JSON body leaves Errors empty.
		_ = json.Unmarshal(data, errResp)
		errResp.StatusCode = statusCode
	}

	return errResp
}
