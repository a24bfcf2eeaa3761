package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/notemd/notemd/internal/config"
	"github.com/notemd/notemd/internal/crawler"
	"github.com/notemd/notemd/internal/database"
	"github.com/notemd/notemd/internal/export"
	"github.com/notemd/notemd/internal/log"
	"github.com/notemd/notemd/internal/model"
	"github.com/notemd/notemd/internal/notion"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [page-url-or-id]",
		Short: "Export a Notion page graph to Markdown files",
		Long: `Export crawls a Notion page graph and writes one Markdown file per page.

Starting from the given root page or database, it follows page links
breadth-first, renders each page's blocks to Markdown, and rewrites
cross-page links to relative paths between the exported files. Pages the
integration cannot access are skipped; links to them fall back to their
notion.so URLs.

The root may be a full Notion URL, a 36-character page id, or a compact
32-character hex id.

Examples:
  # Export a page and everything reachable from it
  notemd export https://www.notion.so/Workspace-0a1b2c3d4e5f60718293a4b5c6d7e8f9

  # Export into a specific directory
  notemd export -o ./docs 0a1b2c3d4e5f60718293a4b5c6d7e8f9

  # Keep links pointing at notion.so
  notemd export --no-rewrite-links 0a1b2c3d4e5f60718293a4b5c6d7e8f9

  # Use a custom configuration file
  notemd export -c myconfig.yaml 0a1b2c3d4e5f60718293a4b5c6d7e8f9`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	// Output flags
	cmd.Flags().StringP("out", "o", config.DefaultOutputDir,
		"Output directory for exported Markdown files")
	cmd.Flags().Bool("no-rewrite-links", false,
		"Keep cross-page links pointing at notion.so instead of local files")

	// API flags
	cmd.Flags().String("token", "",
		"Notion integration token (default: NOTION_TOKEN environment variable)")
	cmd.Flags().String("notion-version", "",
		"Notion-Version API header (default: NOTION_VERSION or "+config.DefaultNotionVersion+")")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request HTTP timeout")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Concurrent block-tree fetches per page (1 disables parallelism)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .notemd in current or home directory)")

	// History ledger
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the export history ledger")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runExport(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags, the environment,
// and an optional configuration file. Precedence is flags, then
// environment, then file, then defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Root = args[0]

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Overlay the configuration file first so flags can override it.
	// An explicitly requested file must exist; the default search may
	// come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Environment overrides the file.
	if token := os.Getenv(config.TokenEnvVar); token != "" {
		cfg.Token = token
	}
	if version := os.Getenv(config.VersionEnvVar); version != "" {
		cfg.NotionVersion = version
	}

	// Flags override everything, but only when actually given.
	if cmd.Flags().Changed("token") {
		if cfg.Token, err = cmd.Flags().GetString("token"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("notion-version") {
		if cfg.NotionVersion, err = cmd.Flags().GetString("notion-version"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("out") {
		if cfg.OutputDir, err = cmd.Flags().GetString("out"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("no-rewrite-links") {
		noRewrite, err := cmd.Flags().GetBool("no-rewrite-links")
		if err != nil {
			return nil, err
		}
		cfg.RewriteLinks = !noRewrite
	}
	if cmd.Flags().Changed("no-history") {
		noHistory, err := cmd.Flags().GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.History = !noHistory
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runExport executes the export run.
func runExport(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	root, err := model.ParsePageID(cfg.Root)
	if err != nil {
		return fmt.Errorf("invalid root %q: %w", cfg.Root, err)
	}

	logger.Info("starting export",
		"root", root.String(),
		"out", cfg.OutputDir,
		"rewriteLinks", cfg.RewriteLinks,
		"concurrency", cfg.Concurrency,
	)

	client := notion.New(cfg.Token,
		notion.WithNotionVersion(cfg.NotionVersion),
		notion.WithTimeout(cfg.Timeout),
		notion.WithHydrateConcurrency(cfg.Concurrency),
	)

	startedAt := time.Now()

	result, err := crawler.New(client, crawler.WithLogger(logger)).Crawl(ctx, root)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	writer := export.NewWriter(cfg.OutputDir, export.WithRewriteLinks(cfg.RewriteLinks))
	summary, err := writer.Write(result)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	finishedAt := time.Now()

	if cfg.History {
		if err := recordRun(ctx, cfg, root, result, summary, startedAt, finishedAt); err != nil {
			// A failed ledger write should not fail a finished export.
			logger.Error("failed to record run history", "error", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Exported %d pages to %s (%d skipped) in %s\n",
		summary.Exported, summary.OutputDir, summary.Skipped,
		finishedAt.Sub(startedAt).Round(time.Millisecond))
	fmt.Fprintf(out, "Index: %s\n", summary.IndexPath)

	return nil
}

// recordRun writes the finished run into the history ledger.
func recordRun(ctx context.Context, cfg *config.Config, root model.PageID, result *model.CrawlResult, summary *export.Summary, startedAt, finishedAt time.Time) error {
	hdb, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer hdb.Close()

	run := &model.RunRecord{
		RootID:     root,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Exported:   summary.Exported,
		Skipped:    summary.Skipped,
		OutputDir:  summary.OutputDir,
	}

	docs := make([]model.DocumentRecord, 0, len(result.Exports))
	for _, exp := range result.Exports {
		docs = append(docs, model.DocumentRecord{
			PageID:   exp.ID,
			Title:    exp.Title,
			Filename: exp.Filename,
		})
	}

	if _, err := hdb.RecordRun(ctx, run, docs); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}
