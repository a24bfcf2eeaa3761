package model

import (
	"time"

	"github.com/gosimple/slug"
)

// untitledSlug is the filename base used when a title slugs to nothing.
const untitledSlug = "untitled"

// PageExport is one crawled page: its identity, resolved title, assigned
// output filename, the rendered markdown with link placeholders still
// embedded, and the set of pages it references. Immutable once created by
// the crawler.
type PageExport struct {
	// ID is the canonical page id.
	ID PageID

	// Title is the page's title property, "Untitled" when empty.
	Title string

	// Filename is the output file name, unique within one crawl.
	Filename string

	// Markdown is the rendered page body. Cross-page links are still in
	// placeholder form; the export writer resolves them.
	Markdown string

	// ForwardLinks are the ids of every page this page references.
	ForwardLinks map[PageID]struct{}
}

// Filename derives the output file name for a page: a slug of the title plus
// a short id fragment. Collision-resistant, not collision-proof; the crawler
// falls back to FilenameFull on an in-run collision.
func Filename(title string, id PageID) string {
	base := slug.Make(title)
	if base == "" {
		base = untitledSlug
	}
	return base + "--" + id.Short() + ".md"
}

// FilenameFull is the collision fallback: the slug plus the full 32-hex id.
func FilenameFull(title string, id PageID) string {
	base := slug.Make(title)
	if base == "" {
		base = untitledSlug
	}
	return base + "--" + id.Compact() + ".md"
}

// CrawlResult is the complete outcome of one crawl run. It is built by the
// crawler and read (never mutated) by the export writer and history ledger.
type CrawlResult struct {
	// Exports holds one record per successfully crawled page, in
	// breadth-first discovery order.
	Exports []*PageExport

	// Visited is the set of page ids that were crawled.
	Visited map[PageID]struct{}

	// Skipped is the set of page ids that were inaccessible (forbidden or
	// not found). Links to these pages resolve to the remote fallback.
	Skipped map[PageID]struct{}

	byID      map[PageID]*PageExport
	filenames map[string]struct{}
}

// NewCrawlResult returns an empty CrawlResult ready for one run.
func NewCrawlResult() *CrawlResult {
	return &CrawlResult{
		Visited:   make(map[PageID]struct{}),
		Skipped:   make(map[PageID]struct{}),
		byID:      make(map[PageID]*PageExport),
		filenames: make(map[string]struct{}),
	}
}

// Seen reports whether the id was already visited or skipped.
func (r *CrawlResult) Seen(id PageID) bool {
	if _, ok := r.Visited[id]; ok {
		return true
	}
	_, ok := r.Skipped[id]
	return ok
}

// MarkVisited records a page as crawled.
func (r *CrawlResult) MarkVisited(id PageID) {
	r.Visited[id] = struct{}{}
}

// MarkSkipped records a page as inaccessible.
func (r *CrawlResult) MarkSkipped(id PageID) {
	r.Skipped[id] = struct{}{}
}

// Add appends an export record. The record's filename must already be
// claimed via ClaimFilename.
func (r *CrawlResult) Add(exp *PageExport) {
	r.Exports = append(r.Exports, exp)
	r.byID[exp.ID] = exp
}

// Export returns the record for id, or nil when the page was not exported.
func (r *CrawlResult) Export(id PageID) *PageExport {
	return r.byID[id]
}

// ClaimFilename assigns a unique output filename for the page. The short-id
// scheme is used first; if another page in this run already claimed that
// name, the full 32-hex id breaks the tie. Assignment happens in crawl
// order, so the outcome is deterministic for a fixed graph.
func (r *CrawlResult) ClaimFilename(title string, id PageID) string {
	name := Filename(title, id)
	if _, taken := r.filenames[name]; taken {
		name = FilenameFull(title, id)
	}
	r.filenames[name] = struct{}{}
	return name
}

// LinkMap returns the id-to-filename mapping over all exported pages.
// Derived from the final export set; skipped pages have no entry.
func (r *CrawlResult) LinkMap() map[PageID]string {
	m := make(map[PageID]string, len(r.Exports))
	for _, exp := range r.Exports {
		m[exp.ID] = exp.Filename
	}
	return m
}

// RunRecord is one row of the export history ledger.
type RunRecord struct {
	// ID is the ledger-assigned run id.
	ID int64

	// RootID is the root page or database the run started from.
	RootID PageID

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Exported and Skipped are the final counts.
	Exported int
	Skipped  int

	// OutputDir is where the files were written.
	OutputDir string
}

// DocumentRecord is one exported page as recorded in the history ledger.
type DocumentRecord struct {
	RunID    int64
	PageID   PageID
	Title    string
	Filename string
}
