package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/notemd/notemd/internal/model"
	"github.com/notemd/notemd/internal/render"
)

// IndexFilename is the name of the generated index file.
const IndexFilename = "_INDEX.md"

// Writer persists a completed crawl as one Markdown file per page plus an
// index. Link placeholders are resolved during writing; written files never
// contain one.
type Writer struct {
	// outDir is the output directory, created on demand.
	outDir string

	// rewriteLinks selects local-relative link resolution. When false,
	// every cross-page link resolves to its notion.so form instead.
	rewriteLinks bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithRewriteLinks toggles local-relative link resolution.
func WithRewriteLinks(rewrite bool) Option {
	return func(w *Writer) {
		w.rewriteLinks = rewrite
	}
}

// NewWriter creates a Writer targeting the given directory.
func NewWriter(outDir string, opts ...Option) *Writer {
	w := &Writer{
		outDir:       outDir,
		rewriteLinks: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Summary reports what a Write produced.
type Summary struct {
	// Exported is the number of page files written.
	Exported int

	// Skipped is the number of inaccessible pages left out.
	Skipped int

	// OutputDir is the absolute output directory.
	OutputDir string

	// IndexPath is the absolute path of the index file.
	IndexPath string
}

// Write resolves links and writes every export plus the index file.
func (w *Writer) Write(result *model.CrawlResult) (*Summary, error) {
	if err := os.MkdirAll(w.outDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	linkMap := result.LinkMap()
	for _, exp := range result.Exports {
		if err := w.writePage(exp, linkMap); err != nil {
			return nil, err
		}
	}

	indexPath := filepath.Join(w.outDir, IndexFilename)
	if err := writeIndexFile(indexPath, result.Exports); err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(w.outDir)
	if err != nil {
		absDir = w.outDir
	}
	return &Summary{
		Exported:  len(result.Exports),
		Skipped:   len(result.Skipped),
		OutputDir: absDir,
		IndexPath: filepath.Join(absDir, IndexFilename),
	}, nil
}

// writePage writes one page file: a machine-readable provenance comment
// followed by the link-resolved Markdown body.
func (w *Writer) writePage(exp *model.PageExport, linkMap map[model.PageID]string) error {
	body := render.ResolveLinks(exp.Markdown, linkMap, w.rewriteLinks)
	content := "<!-- Exported from Notion page: " + exp.ID.String() + " -->\n" + body

	path := filepath.Join(w.outDir, exp.Filename)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write %s: %w", exp.Filename, err)
	}
	return nil
}
