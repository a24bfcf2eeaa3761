// Package export persists a completed crawl to disk.
//
// This package contains the second pass of the two-pass link scheme: once
// the crawl has terminated and the full visited/skipped sets are known, the
// Writer builds the id-to-filename link map, resolves every placeholder in
// each page's rendered Markdown, and writes one file per page plus an
// _INDEX.md listing all exports sorted by title.
//
// Design decision: We separate file emission from crawling so the writer
// only ever sees a finished, immutable CrawlResult. The link map must
// reflect the complete crawl; writing during traversal would leave
// placeholders pointing at files that do not exist yet.
package export
