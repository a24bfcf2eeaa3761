// Package log provides structured logging with credential sanitization.
//
// notemd handles a Notion integration token on every request, and page
// titles or API error messages can end up in log attributes next to it.
// The SecureHandler wraps any slog.Handler and masks attribute values that
// look like credentials before they reach the output, so a --verbose run
// can be pasted into a bug report without leaking the token.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
