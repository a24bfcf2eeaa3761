package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). Callers can use errors.Is()
// for programmatic handling while the messages stay human-readable.
var (
	// ErrMissingToken is returned when no integration token is available
	// from --token or the NOTION_TOKEN environment variable.
	ErrMissingToken = errors.New("missing notion token: provide --token or set NOTION_TOKEN")

	// ErrMissingRoot is returned when no root page URL or id is given.
	ErrMissingRoot = errors.New("no root specified: provide a notion page URL or id")

	// ErrInvalidConcurrency is returned when the hydration concurrency is
	// not positive. Use 1 for strictly sequential fetching.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")
)
