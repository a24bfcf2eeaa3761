// Package notion implements the remote collaborator: a thin client for the
// Notion REST API plus the retry policy and tree hydrator built on it.
//
// # Components
//
//   - Client: resty-based HTTP client for page/database/block operations
//   - APIError: the error taxonomy (permanent vs transient failures)
//   - withRetry: bounded exponential backoff wrapping every remote call
//   - HydrateBlocks: full-tree materialization of block children
//
// All paginated operations are driven to exhaustion, preserving the item
// order returned by the API. The hydrator may fetch sibling subtrees
// concurrently, but results always land in per-index slots so the
// materialized tree is identical regardless of fetch-completion order.
package notion
