package notion

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/notemd/notemd/internal/model"
)

// ListAllChildren drives the block-children listing to exhaustion and
// returns every child in document order. Order is significant: it is the
// page's reading order and must be preserved exactly as returned.
func (c *Client) ListAllChildren(ctx context.Context, id model.PageID) ([]model.Block, error) {
	var all []model.Block
	cursor := ""
	for {
		list, err := c.ListBlockChildren(ctx, id, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, list.Results...)
		if !list.HasMore {
			return all, nil
		}
		cursor = list.NextCursor
	}
}

// HydrateBlocks materializes the full subtree of every block that declares
// children, returning a new slice with the hydrated children attached.
// The renderer needs complete subtrees in one pass (a toggle's hidden body,
// a table's rows), so there is no lazy or partial hydration.
//
// Children are fetched and hydrated before being attached, so no block is
// mutated after construction. Sibling subtrees are hydrated concurrently
// under a bounded errgroup; each goroutine writes only its own index slot,
// which keeps the materialized tree identical regardless of completion
// order.
func (c *Client) HydrateBlocks(ctx context.Context, blocks []model.Block) ([]model.Block, error) {
	out := make([]model.Block, len(blocks))
	copy(out, blocks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.hydrateConcurrency)

	for i := range out {
		if !out[i].HasChildren || out[i].ID == "" {
			continue
		}
		g.Go(func() error {
			kids, err := c.ListAllChildren(gctx, model.PageID(out[i].ID))
			if err != nil {
				return err
			}
			kids, err = c.HydrateBlocks(gctx, kids)
			if err != nil {
				return err
			}
			out[i].Children = kids
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchPageTree fetches and fully hydrates the block tree of a page.
func (c *Client) FetchPageTree(ctx context.Context, id model.PageID) ([]model.Block, error) {
	blocks, err := c.ListAllChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.HydrateBlocks(ctx, blocks)
}
