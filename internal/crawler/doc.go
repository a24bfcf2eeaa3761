// Package crawler discovers and exports the forward-link graph of a Notion
// page tree.
//
// # Architecture
//
// The package is built around the Crawler type, which drains a FIFO work
// queue of page ids breadth-first. For each newly discovered id it resolves
// the title, hydrates the full block tree, renders it to Markdown with
// deferred link placeholders, and enqueues every forward-referenced page
// not yet seen. Visited and skipped sets guarantee each id is processed at
// most once, which also guarantees termination on cyclic reference graphs.
//
// Inaccessible pages (forbidden or not found) are recorded as skipped and
// never abort the run; links to them later resolve to the notion.so
// fallback. Transient remote failures are retried inside the notion client
// and abort the run only after the retry budget is exhausted.
//
// # Usage
//
//	c := crawler.New(client, crawler.WithLogger(logger))
//	result, err := c.Crawl(ctx, rootID)
package crawler
