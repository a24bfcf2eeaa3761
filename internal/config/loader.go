package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".notemd"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file shape. Pointer fields distinguish
// "unset" from a zero value so the file only overrides what it mentions.
type File struct {
	// Token is the Notion integration token. Prefer the NOTION_TOKEN
	// environment variable; storing tokens in files is discouraged.
	Token *string `yaml:"token,omitempty"`

	// NotionVersion is the Notion-Version API header value.
	NotionVersion *string `yaml:"notion_version,omitempty"`

	// OutputDir is the export destination directory.
	OutputDir *string `yaml:"output_dir,omitempty"`

	// RewriteLinks toggles local-relative link resolution.
	RewriteLinks *bool `yaml:"rewrite_links,omitempty"`

	// Concurrency bounds concurrent hydration fetches.
	Concurrency *int `yaml:"concurrency,omitempty"`

	// Timeout is the per-request HTTP timeout.
	Timeout *time.Duration `yaml:"timeout,omitempty"`

	// History toggles the export history ledger.
	History *bool `yaml:"history,omitempty"`
}

// LoadConfigFile reads and parses a YAML configuration file.
// Returns ErrConfigNotFound when the file does not exist, so callers can
// decide whether a missing file is an error (explicit path) or fine
// (default search).
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindConfigFile locates the configuration file:
//  1. the explicit path, when given
//  2. .notemd in the working directory
//  3. config.yaml in the XDG config home for notemd
//  4. .notemd in the user's home directory
//
// Returns "" when no file is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	xdgCandidate := filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
	if _, err := os.Stat(xdgCandidate); err == nil {
		return xdgCandidate
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Apply overlays the file's set values onto cfg. Flag-provided values are
// expected to be applied after this, so precedence stays flags > file >
// defaults.
func (f *File) Apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Token != nil {
		cfg.Token = *f.Token
	}
	if f.NotionVersion != nil {
		cfg.NotionVersion = *f.NotionVersion
	}
	if f.OutputDir != nil {
		cfg.OutputDir = *f.OutputDir
	}
	if f.RewriteLinks != nil {
		cfg.RewriteLinks = *f.RewriteLinks
	}
	if f.Concurrency != nil {
		cfg.Concurrency = *f.Concurrency
	}
	if f.Timeout != nil {
		cfg.Timeout = *f.Timeout
	}
	if f.History != nil {
		cfg.History = *f.History
	}
}
