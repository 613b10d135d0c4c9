// Package pageservice coordinates the Cosense client and the pure page
// pipeline into the operations the tool and REST surfaces expose.
package pageservice

import (
	"context"

	"github.com/maribelle/cosgo/internal/cosense"
	"github.com/maribelle/cosgo/internal/markdown"
	"github.com/maribelle/cosgo/internal/models"
)

// pinBatchFactor sizes each fetch of the pin-exclusion loop relative
// to the requested page count. Tunable; three batches' worth per round
// keeps the number of refetch iterations low on heavily pinned
// projects.
const pinBatchFactor = 3

// ContentClient is the slice of the Cosense client the service needs.
type ContentClient interface {
	GetPage(ctx context.Context, project, title string) (*models.Page, error)
	ListPages(ctx context.Context, project string, opts cosense.ListOptions) *models.ListResult
	ListPagesWithSort(ctx context.Context, project string, opts cosense.ListOptions) *models.ListResult
	SearchPages(ctx context.Context, project, query string) (*models.SearchResult, error)
	InsertLines(ctx context.Context, project, title, target, text string) (*cosense.InsertReport, error)
	PageURL(project, title, body string) string
}

// Service exposes page operations over one content client.
type Service struct {
	client    ContentClient
	converter markdown.Converter
}

// NewService creates a page service.
func NewService(client ContentClient, converter markdown.Converter) *Service {
	return &Service{client: client, converter: converter}
}

// ListParams parameterizes a windowed listing.
type ListParams struct {
	Sort          string
	Limit         int
	Skip          int
	ExcludePinned bool
}

// List returns a sorted window of project pages. Pin exclusion uses an
// incremental refetch loop, since dropping pinned pages shrinks each
// fetched batch by an unknown amount; everything else goes through the
// superset fetch-sort-slice strategy.
func (s *Service) List(ctx context.Context, project string, p ListParams) *models.ListResult {
	if p.ExcludePinned {
		return s.listUnpinned(ctx, project, p)
	}
	return s.client.ListPagesWithSort(ctx, project, cosense.ListOptions{
		Sort:  p.Sort,
		Limit: p.Limit,
		Skip:  p.Skip,
	})
}

// listUnpinned accumulates unpinned pages batch by batch until the
// target count is reached or a fetch comes back empty. The empty-fetch
// check runs every iteration; it is the loop's termination guarantee
// on projects with fewer unpinned pages than requested.
func (s *Service) listUnpinned(ctx context.Context, project string, p ListParams) *models.ListResult {
	target := p.Limit
	if target <= 0 {
		target = 10
	}

	var unpinned []models.Page
	currentSkip := p.Skip

	for len(unpinned) < target {
		batch := s.client.ListPages(ctx, project, cosense.ListOptions{
			Sort:  p.Sort,
			Limit: target * pinBatchFactor,
			Skip:  currentSkip,
		})
		for _, page := range batch.Pages {
			if !page.Pinned() {
				unpinned = append(unpinned, page)
			}
		}
		if len(batch.Pages) == 0 {
			break
		}
		currentSkip += len(batch.Pages)
	}

	if len(unpinned) > target {
		unpinned = unpinned[:target]
	}
	if unpinned == nil {
		unpinned = []models.Page{}
	}

	// A one-page probe supplies the project-level totals for the
	// response envelope.
	head := s.client.ListPages(ctx, project, cosense.ListOptions{Limit: 1})
	return &models.ListResult{
		ProjectName: project,
		Count:       head.Count,
		Limit:       target,
		Skip:        p.Skip,
		Pages:       unpinned,
		Debug:       head.Debug,
	}
}

// ListBatch performs a single bulk fetch without the windowed
// superset strategy. The resource bootstrap uses it to grab one
// fixed-size sorted batch.
func (s *Service) ListBatch(ctx context.Context, project string, opts cosense.ListOptions) *models.ListResult {
	return s.client.ListPages(ctx, project, opts)
}

// Get fetches one page's full detail.
func (s *Service) Get(ctx context.Context, project, title string) (*models.Page, error) {
	return s.client.GetPage(ctx, project, title)
}

// Search runs a full-text query against the project.
func (s *Service) Search(ctx context.Context, project, query string) (*models.SearchResult, error) {
	return s.client.SearchPages(ctx, project, query)
}

// CreateURL builds the page-creation URL for a new page, converting a
// markdown body to Scrapbox markup first.
func (s *Service) CreateURL(project, title, body string, opts markdown.Options) (string, error) {
	if body == "" {
		return s.client.PageURL(project, title, ""), nil
	}
	converted, err := s.converter.Convert(body, opts)
	if err != nil {
		return "", err
	}
	return s.client.PageURL(project, title, converted), nil
}

// PageURL returns the browser URL of an existing page.
func (s *Service) PageURL(project, title string) string {
	return s.client.PageURL(project, title, "")
}

// InsertLines inserts text after the first page line containing target.
func (s *Service) InsertLines(ctx context.Context, project, title, target, text string) (*cosense.InsertReport, error) {
	return s.client.InsertLines(ctx, project, title, target, text)
}
