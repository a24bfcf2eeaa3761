// Package main provides the entry point for the notemd CLI.
//
// notemd exports a Notion page graph as local Markdown files. Starting
// from a root page or database, it follows page links breadth-first and
// writes one Markdown file per reachable page.
//
// Usage:
//
//	notemd export <page-url-or-id>
//	notemd history
//
// See --help for all available options.
package main

// main is the entry point for notemd.
func main() {
	Execute()
}
