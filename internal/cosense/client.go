// Package cosense implements the client side of the Cosense (Scrapbox)
// content API: page detail fetches, bulk listings with detail
// enrichment, full-text search, and the websocket line commit used for
// page edits.
package cosense

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maribelle/cosgo/internal/apperr"
	"github.com/maribelle/cosgo/internal/models"
	"github.com/maribelle/cosgo/internal/pages"
)

const (
	// enrichConcurrency bounds the per-page detail fetches issued for
	// one listing batch. Tunable; results do not depend on it.
	enrichConcurrency = 8

	// listSlack is the extra page count fetched beyond limit+skip so
	// the client-side sort sees a large enough candidate pool. With
	// projects larger than limit+skip+listSlack, large skip values can
	// miss pages; that bounded-window approximation is a documented
	// limitation, not a bug.
	listSlack = 100

	// descriptionLines is how many leading content lines a listing
	// carries as a preview.
	descriptionLines = 5

	defaultListLimit = 1000
)

// Client talks to one Cosense host. The zero credential means
// anonymous access to public projects only.
type Client struct {
	baseURL string
	sid     string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New creates a Client for the given host ("https://scrapbox.io") and
// optional connect.sid session credential.
func New(baseURL, sid string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		sid:     sid,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured host, e.g. for building page URLs.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.sid != "" {
		req.Header.Set("Cookie", "connect.sid="+c.sid)
	}
	return c.httpc.Do(req)
}

// pageWire shadows the lines field so a missing array can be told
// apart from an empty one.
type pageWire struct {
	models.Page
	Lines *[]models.Line `json:"lines"`
}

// GetPage fetches one page's full detail. Any failure — non-2xx
// status, network error, malformed payload — collapses into a single
// apperr.ErrNotFound-wrapped error; callers never distinguish a 404
// from other failures. A structurally incomplete but decodable payload
// is returned with a Debug marker instead of being discarded.
func (c *Client) GetPage(ctx context.Context, project, title string) (*models.Page, error) {
	u := fmt.Sprintf("%s/api/pages/%s/%s", c.baseURL, project, url.PathEscape(title))

	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("get page %q: %w", title, apperr.ErrNotFound)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get page %q: status %d: %w", title, resp.StatusCode, apperr.ErrNotFound)
	}

	var w pageWire
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("get page %q: %w", title, apperr.ErrNotFound)
	}

	page := w.Page
	if w.Lines == nil {
		page.Debug = &models.Debug{Error: "Invalid page response format: lines is not an array"}
		return &page, nil
	}
	page.Lines = *w.Lines

	// Never leave the creator unset when any identity is known.
	switch {
	case page.User == nil && page.LastUpdateUser != nil:
		page.User = page.LastUpdateUser
		page.Debug = &models.Debug{
			Warning: fmt.Sprintf("Using lastUpdateUser as fallback for user information on page: %s", page.Title),
		}
	case page.User == nil:
		page.Debug = &models.Debug{
			Warning: fmt.Sprintf("Missing both user and lastUpdateUser information for page: %s", page.Title),
		}
	}

	return &page, nil
}

// ListOptions parameterizes a bulk listing.
type ListOptions struct {
	Limit         int
	Skip          int
	Sort          string
	ExcludePinned bool
}

func (o ListOptions) limitOrDefault() int {
	if o.Limit <= 0 {
		return defaultListLimit
	}
	return o.Limit
}

func (o ListOptions) sortOrDefault() string {
	if o.Sort == "" {
		return pages.SortCreated
	}
	return o.Sort
}

// ListPages fetches one server page of summaries, enriches every entry
// with a concurrent detail fetch, then sorts and filters client-side.
// Failures never surface as errors: a failed listing comes back as an
// empty result carrying Debug.Error.
func (c *Client) ListPages(ctx context.Context, project string, opts ListOptions) *models.ListResult {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(opts.limitOrDefault()))
	params.Set("skip", strconv.Itoa(opts.Skip))
	params.Set("sort", opts.sortOrDefault())
	u := fmt.Sprintf("%s/api/pages/%s?%s", c.baseURL, project, params.Encode())

	debug := &models.Debug{
		RequestURL: u,
		Params: map[string]string{
			"limit": params.Get("limit"),
			"skip":  params.Get("skip"),
			"sort":  params.Get("sort"),
		},
	}

	empty := func(msg string) *models.ListResult {
		d := *debug
		d.Error = msg
		return &models.ListResult{ProjectName: project, Pages: []models.Page{}, Debug: &d}
	}

	resp, err := c.get(ctx, u)
	if err != nil {
		return empty(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return empty(fmt.Sprintf("API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var result models.ListResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return empty("invalid list response: " + err.Error())
	}

	c.enrich(ctx, project, result.Pages)

	sorted := pages.SortPages(result.Pages, pages.SortOptions{
		Sort:          opts.Sort,
		ExcludePinned: opts.ExcludePinned,
	})

	debug.OriginalCount = len(result.Pages)
	debug.FilteredCount = len(sorted)
	debug.AppliedSort = opts.sortOrDefault()
	debug.ExcludedPinned = opts.ExcludePinned

	result.ProjectName = project
	result.Pages = sorted
	result.Debug = debug
	return &result
}

// enrich fills user, editor, timestamp, collaborator, and preview
// fields on each summary via a bounded fan-out of detail fetches. The
// bulk endpoint does not carry this metadata, so the N+1 round is
// intentional. A summary whose detail fetch fails is kept as-is.
func (c *Client) enrich(ctx context.Context, project string, summaries []models.Page) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for i := range summaries {
		g.Go(func() error {
			detail, err := c.GetPage(gctx, project, summaries[i].Title)
			if err != nil {
				return nil
			}
			summaries[i].User = detail.User
			summaries[i].LastUpdateUser = detail.LastUpdateUser
			summaries[i].Created = detail.Created
			summaries[i].Updated = detail.Updated
			summaries[i].Collaborators = detail.Collaborators
			summaries[i].Descriptions = detail.Description(descriptionLines)
			return nil
		})
	}
	_ = g.Wait()
}

// ListPagesWithSort lists a window of pages under a client-side sort.
// It fetches limit+skip+listSlack candidates from the start of the
// project so sorting covers more than one server page, re-sorts, and
// slices out [skip, skip+limit).
func (c *Client) ListPagesWithSort(ctx context.Context, project string, opts ListOptions) *models.ListResult {
	fetchSize := opts.limitOrDefault() + opts.Skip + listSlack

	result := c.ListPages(ctx, project, ListOptions{
		Limit:         fetchSize,
		Skip:          0,
		ExcludePinned: opts.ExcludePinned,
	})

	sorted := pages.SortPages(result.Pages, pages.SortOptions{
		Sort:          opts.Sort,
		ExcludePinned: opts.ExcludePinned,
	})

	lo := opts.Skip
	if lo > len(sorted) {
		lo = len(sorted)
	}
	hi := opts.Skip + opts.limitOrDefault()
	if hi > len(sorted) {
		hi = len(sorted)
	}

	window := sorted[lo:hi]
	result.Pages = window
	result.Limit = len(window)
	result.Skip = opts.Skip
	return result
}

// searchHit is the wire shape of one search result entry; its lines
// field is plain strings, unlike a page detail.
type searchHit struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Image          string        `json:"image"`
	Words          []string      `json:"words"`
	Lines          []string      `json:"lines"`
	Created        int64         `json:"created"`
	Updated        int64         `json:"updated"`
	User           *models.User  `json:"user"`
	LastUpdateUser *models.User  `json:"lastUpdateUser"`
	Collaborators  []models.User `json:"collaborators"`
}

type searchWire struct {
	Query                 models.SearchQuery `json:"query"`
	Limit                 int                `json:"limit"`
	Count                 int                `json:"count"`
	ExistsExactTitleMatch bool               `json:"existsExactTitleMatch"`
	Backend               string             `json:"backend"`
	Pages                 []searchHit        `json:"pages"`
}

// SearchPages runs a full-text query against the project. The query
// string is passed through opaquely; word, exclusion, and phrase
// semantics live entirely in the remote backend. A non-2xx status
// comes back as a zero-count result with Debug.Error; only transport
// or decode failures return an error. The backend caps results at 100
// and offers no continuation.
func (c *Client) SearchPages(ctx context.Context, project, query string) (*models.SearchResult, error) {
	u := fmt.Sprintf("%s/api/pages/%s/search/query?q=%s", c.baseURL, project, url.QueryEscape(query))

	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &models.SearchResult{
			ProjectName: project,
			SearchQuery: query,
			Query:       models.SearchQuery{Words: []string{}, Excludes: []string{}},
			Backend:     "elasticsearch",
			Pages:       []models.Page{},
			Debug: &models.Debug{
				RequestURL: u,
				Error:      fmt.Sprintf("Search API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			},
		}, nil
	}

	var w searchWire
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("search pages: decode: %w", err)
	}

	hits := make([]models.Page, 0, len(w.Pages))
	for _, h := range w.Pages {
		hits = append(hits, models.Page{
			ID:             h.ID,
			Title:          h.Title,
			Words:          h.Words,
			SearchLines:    h.Lines,
			Created:        h.Created,
			Updated:        h.Updated,
			User:           h.User,
			LastUpdateUser: h.LastUpdateUser,
			Collaborators:  h.Collaborators,
		})
	}

	return &models.SearchResult{
		ProjectName:           project,
		SearchQuery:           query,
		Query:                 w.Query,
		Limit:                 w.Limit,
		Count:                 w.Count,
		ExistsExactTitleMatch: w.ExistsExactTitleMatch,
		Backend:               w.Backend,
		Pages:                 hits,
		Debug: &models.Debug{
			RequestURL:   u,
			TotalResults: len(w.Pages),
		},
	}, nil
}

// PageURL returns the browser URL of a page. A non-empty body is
// attached as the body query parameter, which makes Cosense create
// the page with that content on first visit.
func (c *Client) PageURL(project, title, body string) string {
	base := fmt.Sprintf("%s/%s/%s", c.baseURL, project, url.PathEscape(title))
	if body == "" {
		return base
	}
	return base + "?body=" + url.QueryEscape(body)
}
