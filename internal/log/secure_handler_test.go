package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandlerMasksSensitiveKeys verifies that attributes with
// credential keys are masked regardless of their values.
func TestSecureHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "authorization header", key: "authorization"},
		{name: "token", key: "token"},
		{name: "notion token", key: "notion_token"},
		{name: "api key", key: "api_key"},
		{name: "mixed case", key: "Authorization"},
		{name: "embedded keyword", key: "http_auth_header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewSecureHandler(slog.NewTextHandler(&buf, nil)))
			logger.Info("request", tt.key, "secret_abcdefghijklmnopqrstuv")

			out := buf.String()
			if strings.Contains(out, "secret_abcdefghijklmnopqrstuv") {
				t.Errorf("credential leaked: %s", out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask in output: %s", out)
			}
		})
	}
}

// TestSecureHandlerMasksSensitiveValues verifies value-pattern masking
// under innocuous keys.
func TestSecureHandlerMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "legacy integration token", value: "secret_abcdefghij0123456789XY"},
		{name: "current integration token", value: "ntn_abcdefghij0123456789XY"},
		{name: "bearer header", value: "Bearer abc.def.ghi"},
		{name: "basic auth header", value: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewSecureHandler(slog.NewTextHandler(&buf, nil)))
			logger.Info("request", "header", tt.value)

			if !strings.Contains(buf.String(), MaskValue) {
				t.Errorf("expected %q to be masked: %s", tt.value, buf.String())
			}
		})
	}
}

// TestSecureHandlerPassesNormalAttrs verifies ordinary attributes survive.
func TestSecureHandlerPassesNormalAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewTextHandler(&buf, nil)))
	logger.Info("exported", "page", "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9", "title", "Meeting notes")

	out := buf.String()
	if !strings.Contains(out, "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9") {
		t.Errorf("page id should not be masked: %s", out)
	}
	if !strings.Contains(out, "Meeting notes") {
		t.Errorf("title should not be masked: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("unexpected mask: %s", out)
	}
}

// TestSecureHandlerSanitizesGroups verifies recursion into group attributes.
func TestSecureHandlerSanitizesGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewTextHandler(&buf, nil)))
	logger.Info("request",
		slog.Group("http",
			slog.String("method", "GET"),
			slog.String("authorization", "Bearer abc123"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "abc123") {
		t.Errorf("grouped credential leaked: %s", out)
	}
	if !strings.Contains(out, "GET") {
		t.Errorf("grouped normal attr should survive: %s", out)
	}
}

// TestSecureHandlerWithAttrs verifies pre-bound attributes are sanitized.
func TestSecureHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewTextHandler(&buf, nil)))
	bound := logger.With("token", "secret_abcdefghij0123456789XY")
	bound.Info("ready")

	if strings.Contains(buf.String(), "secret_abcdefghij0123456789XY") {
		t.Errorf("bound credential leaked: %s", buf.String())
	}
}

// TestNewSecureLoggerLevels verifies the verbose flag selects debug level.
func TestNewSecureLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("default suppresses debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, false)
		logger.Debug("hidden")
		logger.Info("shown")

		if strings.Contains(buf.String(), "hidden") {
			t.Error("debug record should be suppressed")
		}
		if !strings.Contains(buf.String(), "shown") {
			t.Error("info record should be emitted")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, true)
		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("debug should be enabled in verbose mode")
		}
	})
}
