// Package model defines the core data structures shared across notemd.
//
// This package contains:
//   - PageID: immutable value object for canonical Notion identities
//   - Block and its payloads: the polymorphic content-tree node model
//   - PageExport and CrawlResult: the outcome of one crawl run
//   - RunRecord and DocumentRecord: rows of the export history ledger
//
// Design decision: We keep the model package free of I/O and rendering
// logic. The notion package populates Blocks, the render package consumes
// them, and neither dependency direction passes through here. This keeps
// the per-kind payload structs usable from tests without network fakes.
package model
