package notion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/notemd/notemd/internal/model"
)

// Client defaults. The page size is the Notion API maximum; using it keeps
// the number of pagination round-trips minimal.
const (
	// DefaultBaseURL is the Notion REST API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"

	// DefaultNotionVersion is the API version sent in the Notion-Version
	// header. Overridable because Notion gates response shapes on it.
	DefaultNotionVersion = "2022-06-28"

	// DefaultPageSize is the page size for paginated list operations.
	DefaultPageSize = 100

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the total attempt budget for a remote call,
	// including the first try.
	DefaultMaxAttempts = 6

	// DefaultRetryBase is the initial backoff delay; it doubles on each
	// retry attempt.
	DefaultRetryBase = 600 * time.Millisecond

	// DefaultHydrateConcurrency bounds concurrent child-list fetches while
	// hydrating sibling subtrees.
	DefaultHydrateConcurrency = 4
)

// Client is the Notion API collaborator. All remote calls go through the
// retry policy; permanent failures (400/403/404) surface immediately as
// *APIError, transient ones are retried with exponential backoff.
//
// Design decision: We build on resty rather than raw net/http because it
// centralizes auth headers, JSON decoding, and error-body capture in the
// client construction. Resty's built-in retry stays disabled so the
// permanent/transient classification lives in exactly one place (retry.go).
type Client struct {
	// http is the configured resty client.
	http *resty.Client

	// pageSize is the page size for paginated calls.
	pageSize int

	// maxAttempts is the total attempt budget per remote call.
	maxAttempts int

	// retryBase is the initial exponential backoff delay.
	retryBase time.Duration

	// hydrateConcurrency bounds sibling-subtree hydration fan-out.
	hydrateConcurrency int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests to point the client
// at a local fake server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(baseURL)
	}
}

// WithNotionVersion sets the Notion-Version request header.
func WithNotionVersion(version string) Option {
	return func(c *Client) {
		c.http.SetHeader("Notion-Version", version)
	}
}

// WithPageSize sets the page size for paginated list operations.
func WithPageSize(size int) Option {
	return func(c *Client) {
		c.pageSize = size
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithMaxAttempts sets the total attempt budget per remote call.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.maxAttempts = n
	}
}

// WithRetryBase sets the initial backoff delay. Tests shrink this to keep
// retry paths fast.
func WithRetryBase(d time.Duration) Option {
	return func(c *Client) {
		c.retryBase = d
	}
}

// WithHydrateConcurrency bounds concurrent sibling hydration.
// A value of 1 makes hydration strictly sequential.
func WithHydrateConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.hydrateConcurrency = n
		}
	}
}

// New creates a Client authenticated with the given integration token.
func New(token string, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetAuthToken(token).
		SetHeader("Notion-Version", DefaultNotionVersion).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	c := &Client{
		http:               httpClient,
		pageSize:           DefaultPageSize,
		maxAttempts:        DefaultMaxAttempts,
		retryBase:          DefaultRetryBase,
		hydrateConcurrency: DefaultHydrateConcurrency,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Page is the subset of a page object the exporter needs: its id and the
// properties that carry the title.
type Page struct {
	Object     string                  `json:"object"`
	ID         string                  `json:"id"`
	Properties map[string]PageProperty `json:"properties"`
}

// PageProperty is one entry of a page's properties map. Only the
// title-typed property is consumed.
type PageProperty struct {
	Type  string           `json:"type"`
	Title []model.RichText `json:"title,omitempty"`
}

// Title extracts the page title by concatenating the plain text of the
// title-typed property. Returns "Untitled" when the page has none.
func (p *Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type != "title" {
			continue
		}
		var sb strings.Builder
		for _, rt := range prop.Title {
			sb.WriteString(rt.PlainText)
		}
		if title := strings.TrimSpace(sb.String()); title != "" {
			return title
		}
		break
	}
	return "Untitled"
}

// BlockList is one page of a block-children listing.
type BlockList struct {
	Results    []model.Block `json:"results"`
	HasMore    bool          `json:"has_more"`
	NextCursor string        `json:"next_cursor"`
}

// PageList is one page of a database query result. Only page members are
// relevant; other object kinds are ignored by the caller.
type PageList struct {
	Results    []ObjectRef `json:"results"`
	HasMore    bool        `json:"has_more"`
	NextCursor string      `json:"next_cursor"`
}

// ObjectRef identifies one object in a query result.
type ObjectRef struct {
	Object string `json:"object"`
	ID     string `json:"id"`
}

// RootKind classifies what the root id points at.
type RootKind int

const (
	// RootPage means the root is a single page.
	RootPage RootKind = iota
	// RootDatabase means the root is a database whose member pages seed
	// the crawl; the database itself is not rendered.
	RootDatabase
)

// String returns the string representation of the RootKind.
func (k RootKind) String() string {
	if k == RootDatabase {
		return "database"
	}
	return "page"
}

// RetrievePage fetches a page object.
func (c *Client) RetrievePage(ctx context.Context, id model.PageID) (*Page, error) {
	var page Page
	err := c.withRetry(ctx, func(ctx context.Context) error {
		return c.get(ctx, "/pages/"+id.String(), nil, &page)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// RetrieveDatabase fetches a database object. Only reachability matters to
// the exporter, so the decoded body is discarded.
func (c *Client) RetrieveDatabase(ctx context.Context, id model.PageID) error {
	var body map[string]any
	return c.withRetry(ctx, func(ctx context.Context) error {
		return c.get(ctx, "/databases/"+id.String(), nil, &body)
	})
}

// DetectRootKind determines whether the root id is a page or a database.
// It tries the page endpoint first; on a permanent failure it falls back to
// the database endpoint. Transient failures propagate from either attempt.
func (c *Client) DetectRootKind(ctx context.Context, id model.PageID) (RootKind, error) {
	_, pageErr := c.RetrievePage(ctx, id)
	if pageErr == nil {
		return RootPage, nil
	}
	if !IsPermanent(pageErr) {
		return RootPage, pageErr
	}

	if dbErr := c.RetrieveDatabase(ctx, id); dbErr == nil {
		return RootDatabase, nil
	} else if !IsPermanent(dbErr) {
		return RootDatabase, dbErr
	}

	return RootPage, fmt.Errorf("%w: %s", ErrRootNotIdentified, id)
}

// PageTitle retrieves a page and extracts its title. Callers use
// IsPermanent on the returned error to decide whether the page should be
// skipped rather than aborting the run.
func (c *Client) PageTitle(ctx context.Context, id model.PageID) (string, error) {
	page, err := c.RetrievePage(ctx, id)
	if err != nil {
		return "", err
	}
	return page.Title(), nil
}

// ListBlockChildren fetches one page of a block's children.
// An empty cursor starts from the beginning.
func (c *Client) ListBlockChildren(ctx context.Context, id model.PageID, cursor string) (*BlockList, error) {
	params := map[string]string{"page_size": fmt.Sprintf("%d", c.pageSize)}
	if cursor != "" {
		params["start_cursor"] = cursor
	}

	var list BlockList
	err := c.withRetry(ctx, func(ctx context.Context) error {
		return c.get(ctx, "/blocks/"+id.String()+"/children", params, &list)
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// QueryDatabase fetches one page of a database's member listing.
func (c *Client) QueryDatabase(ctx context.Context, id model.PageID, cursor string) (*PageList, error) {
	body := map[string]any{"page_size": c.pageSize}
	if cursor != "" {
		body["start_cursor"] = cursor
	}

	var list PageList
	err := c.withRetry(ctx, func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&list).
			SetError(&APIError{}).
			Post("/databases/" + id.String() + "/query")
		return c.responseError(resp, err)
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// QueryAllDatabasePages drives QueryDatabase to exhaustion and returns the
// ids of every page member, preserving the API's order.
func (c *Client) QueryAllDatabasePages(ctx context.Context, id model.PageID) ([]model.PageID, error) {
	var ids []model.PageID
	cursor := ""
	for {
		list, err := c.QueryDatabase(ctx, id, cursor)
		if err != nil {
			return nil, err
		}
		for _, ref := range list.Results {
			if ref.Object != "page" {
				continue
			}
			pid, err := model.ParsePageID(ref.ID)
			if err != nil {
				continue
			}
			ids = append(ids, pid)
		}
		if !list.HasMore {
			return ids, nil
		}
		cursor = list.NextCursor
	}
}

// get performs a GET request, decoding success into out and failure into an
// *APIError.
func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&APIError{})
	if params != nil {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(path)
	return c.responseError(resp, err)
}

// responseError normalizes a resty response into an error: transport errors
// pass through (transient), non-2xx responses become *APIError.
func (c *Client) responseError(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{}
	}
	// The body's status field mirrors the HTTP status; trust the HTTP
	// layer when the body was empty or malformed.
	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = resp.StatusCode()
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status()
	}
	return apiErr
}
