// Package render converts hydrated Notion block trees into Markdown.
//
// # Two-pass linking
//
// Rendering happens while the crawl is still discovering pages, so the
// final filename of a linked page is not yet known. Cross-page links are
// therefore emitted as placeholders of the form {PAGE:<id>} and every
// referenced id is collected into the caller's link set. Once the crawl
// terminates, ResolveLinks rewrites each placeholder to a relative local
// path or, for pages that were skipped or never crawled, to the notion.so
// fallback URL. Resolution is a pure text transform; it never re-renders.
//
// # Dispatch
//
// RenderBlocks dispatches on the block's kind discriminant with one case
// per supported kind and a best-effort fallback that probes the raw block
// JSON for a rich_text payload. Child blocks are rendered recursively and
// indented, embedded (toggles), or appended depending on the parent kind.
package render
