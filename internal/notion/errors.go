package notion

import (
	"errors"
	"fmt"
)

// ErrRootNotIdentified is returned when the root id resolves to neither a
// page nor a database. The usual cause is a page that has not been shared
// with the integration.
var ErrRootNotIdentified = errors.New("root id is neither an accessible page nor an accessible database")

// APIError is a non-2xx response from the Notion API. It carries the HTTP
// status and the machine-readable error code from the response body.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"status"`

	// Code is Notion's error code, e.g. "object_not_found".
	Code string `json:"code"`

	// Message is the human-readable error description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("notion api error: %s (status %d, code %q)", e.Message, e.StatusCode, e.Code)
}

// Permanent reports whether the error can never succeed on retry.
// Bad request, forbidden, and not found are permanent; rate limits, server
// errors, and anything unclassified are treated as transient.
func (e *APIError) Permanent() bool {
	switch e.StatusCode {
	case 400, 403, 404:
		return true
	}
	return false
}

// IsPermanent reports whether err is (or wraps) a permanent APIError.
// Permanent errors are never retried; the crawler recovers from them by
// marking the page as skipped.
func IsPermanent(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Permanent()
}
