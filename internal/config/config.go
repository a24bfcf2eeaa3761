package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The retry and page-size defaults mirror
// what the Notion API tolerates: 100 is the listing page-size maximum, and
// six attempts with a 600ms doubling backoff stays under the documented
// rate-limit window for sustained crawls.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "notemd"

	// DefaultOutputDir is where exported files land unless --out is given.
	DefaultOutputDir = "./notion_export"

	// DefaultNotionVersion is the Notion-Version header value.
	DefaultNotionVersion = "2022-06-28"

	// DefaultPageSize is the page size for paginated API listings.
	DefaultPageSize = 100

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the remote-call attempt budget, first try
	// included.
	DefaultMaxAttempts = 6

	// DefaultRetryBase is the initial backoff delay between attempts.
	DefaultRetryBase = 600 * time.Millisecond

	// DefaultConcurrency bounds concurrent sibling-subtree hydration.
	// The crawl itself stays sequential; only child fetches fan out.
	DefaultConcurrency = 4

	// TokenEnvVar is the environment variable consulted when --token is
	// not given.
	TokenEnvVar = "NOTION_TOKEN"

	// VersionEnvVar overrides the default Notion-Version header.
	VersionEnvVar = "NOTION_VERSION"
)

// Config holds all options for one export run.
type Config struct {
	// Root is the raw root page URL or id as given on the command line.
	Root string

	// Token is the Notion integration token.
	Token string

	// NotionVersion is the API version header value.
	NotionVersion string

	// OutputDir is the directory exported files are written to.
	OutputDir string

	// RewriteLinks selects local-relative link resolution. When false,
	// every cross-page link resolves to its notion.so form.
	RewriteLinks bool

	// Concurrency bounds concurrent hydration fetches. 1 disables
	// parallelism entirely.
	Concurrency int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// History enables recording the run in the export history ledger.
	History bool

	// HistoryDir is the directory holding the ledger database.
	HistoryDir string

	// ConfigFilePath is an explicitly requested config file, if any.
	ConfigFilePath string

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		NotionVersion: DefaultNotionVersion,
		OutputDir:     DefaultOutputDir,
		RewriteLinks:  true,
		Concurrency:   DefaultConcurrency,
		Timeout:       DefaultTimeout,
		History:       true,
		HistoryDir:    XDGDataDir(),
	}
}

// Validate checks the configuration for a runnable export.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Root == "" {
		return ErrMissingRoot
	}
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// XDGDataDir returns the per-user data directory for the history ledger.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
