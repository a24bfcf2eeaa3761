// Package database provides SQLite-backed storage for the export history
// ledger.
//
// Every completed export run is recorded as a run row plus one document
// row per exported page. The ledger powers the history command and lets
// users answer "when did I last export this workspace, and what came out"
// without re-reading the output directory.
//
// The store uses modernc.org/sqlite, a pure-Go driver, so the binary
// stays CGO-free.
package database
