package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/notemd/notemd/internal/model"
	"github.com/notemd/notemd/internal/notion"
	"github.com/notemd/notemd/internal/render"
)

// Crawler walks the forward-link graph of a Notion workspace breadth-first,
// producing one PageExport per reachable, accessible page.
//
// The queue is drained strictly in FIFO order. That gives breadth-first
// layering, which keeps traversal order and filename tie-breaking
// deterministic for a fixed reference graph.
type Crawler struct {
	// client is the Notion API collaborator.
	client *notion.Client

	// logger reports per-page progress and skips.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler using the given Notion client.
func New(client *notion.Client, opts ...Option) *Crawler {
	c := &Crawler{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl exports the graph reachable from root. A database root is expanded
// into its member pages, which seed the queue; the database itself is not
// rendered. The returned CrawlResult holds every export in discovery order
// plus the final visited and skipped sets.
//
// Identity-level failures (forbidden, not found) skip the page and
// continue. Transient failures that survive the retry budget abort the run.
func (c *Crawler) Crawl(ctx context.Context, root model.PageID) (*model.CrawlResult, error) {
	result := model.NewCrawlResult()

	kind, err := c.client.DetectRootKind(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	c.logger.Info("detected root", "kind", kind.String(), "id", root.String())

	var queue []model.PageID
	if kind == notion.RootDatabase {
		members, err := c.client.QueryAllDatabasePages(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("expand database %s: %w", root, err)
		}
		c.logger.Info("expanded database", "members", len(members))
		queue = append(queue, members...)
	} else {
		queue = append(queue, root)
	}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		id := queue[0]
		queue = queue[1:]
		if result.Seen(id) {
			continue
		}

		export, err := c.crawlPage(ctx, id, result)
		if err != nil {
			return nil, err
		}
		if export == nil {
			// Page was inaccessible and recorded as skipped.
			continue
		}

		queue = append(queue, unseenLinks(export, result)...)
	}

	return result, nil
}

// crawlPage exports a single page: title lookup, full-tree hydration, and
// rendering with deferred links. Returns nil (without error) when the page
// is inaccessible and was marked skipped.
func (c *Crawler) crawlPage(ctx context.Context, id model.PageID, result *model.CrawlResult) (*model.PageExport, error) {
	title, err := c.client.PageTitle(ctx, id)
	if err != nil {
		if notion.IsPermanent(err) {
			c.logger.Warn("skipping inaccessible page", "id", id.String(), "reason", err.Error())
			result.MarkSkipped(id)
			return nil, nil
		}
		return nil, fmt.Errorf("resolve title of %s: %w", id, err)
	}
	result.MarkVisited(id)
	c.logger.Info("exporting page", "title", title, "id", id.String())

	blocks, err := c.client.FetchPageTree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch blocks of %s: %w", id, err)
	}

	markdown, linked := render.RenderBlocks(blocks)

	export := &model.PageExport{
		ID:           id,
		Title:        title,
		Filename:     result.ClaimFilename(title, id),
		Markdown:     markdown,
		ForwardLinks: linked,
	}
	result.Add(export)
	return export, nil
}

// unseenLinks returns the export's forward links not yet visited or
// skipped, sorted so enqueue order does not depend on map iteration.
func unseenLinks(export *model.PageExport, result *model.CrawlResult) []model.PageID {
	var next []model.PageID
	for id := range export.ForwardLinks {
		if !result.Seen(id) {
			next = append(next, id)
		}
	}
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	return next
}
