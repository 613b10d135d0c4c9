package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/maribelle/cosgo/internal/apperr"
	"github.com/maribelle/cosgo/internal/markdown"
	"github.com/maribelle/cosgo/internal/pages"
	"github.com/maribelle/cosgo/internal/pageservice"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// errorResult builds the uniform failure envelope. Every failure path
// names the operation and the project so agents can report something
// actionable instead of an opaque code.
func errorResult(op, project string, err error, extra ...string) *mcp.CallToolResult {
	lines := []string{
		"Error details:",
		"Message: " + err.Error(),
		"Operation: " + op,
		"Project: " + project,
	}
	lines = append(lines, extra...)
	lines = append(lines, "Timestamp: "+timestamp())
	return mcp.NewToolResultError(strings.Join(lines, "\n"))
}

func (s *Server) project(req mcp.CallToolRequest) string {
	return req.GetString("projectName", s.cfg.Project)
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sortKey := req.GetString("sort", "")
	limit := req.GetInt("limit", pages.MaxListLimit)
	skip := req.GetInt("skip", 0)
	excludePinned := req.GetBool("excludePinned", false)

	fail := func(err error) *mcp.CallToolResult {
		return errorResult("list_pages", s.cfg.Project, err,
			"Sort: "+orDefault(sortKey),
			fmt.Sprintf("Limit: %d", limit),
			fmt.Sprintf("Skip: %d", skip),
			fmt.Sprintf("ExcludePinned: %t", excludePinned),
		)
	}

	if err := validation.Validate(limit,
		validation.Min(pages.MinListLimit), validation.Max(pages.MaxListLimit)); err != nil {
		return fail(fmt.Errorf("limit: %w", err)), nil
	}
	if err := validation.Validate(skip, validation.Min(0)); err != nil {
		return fail(fmt.Errorf("skip: %w", err)), nil
	}
	if sortKey != "" && !pages.IsValidSortMethod(sortKey) {
		return fail(fmt.Errorf("invalid sort method %q", sortKey)), nil
	}

	result := s.svc.List(ctx, s.cfg.Project, pageservice.ListParams{
		Sort:          sortKey,
		Limit:         limit,
		Skip:          skip,
		ExcludePinned: excludePinned,
	})

	var b strings.Builder
	b.WriteString(strings.Join([]string{
		"Project: " + s.cfg.Project,
		fmt.Sprintf("Total pages: %d", result.Count),
		fmt.Sprintf("Pages fetched: %d", result.Limit),
		fmt.Sprintf("Pages skipped: %d", result.Skip),
		"Sort method: " + pages.GetSortDescription(sortKey),
		"---",
	}, "\n") + "\n")

	blocks := make([]string, 0, len(result.Pages))
	for i := range result.Pages {
		page := &result.Pages[i]
		sv := pages.GetSortValue(page, sortKey)
		blocks = append(blocks, pages.FormatPage(page, i, pages.FormatOptions{
			Skip:             skip,
			ShowSort:         true,
			SortValue:        sv.Formatted,
			ShowDescriptions: true,
		})+"\n---")
	}
	b.WriteString(strings.Join(blocks, "\n"))

	return mcp.NewToolResultText(b.String()), nil
}

func orDefault(sortKey string) string {
	if sortKey == "" {
		return "default"
	}
	return sortKey
}

func (s *Server) getPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := s.project(req)

	title, err := req.RequireString("pageTitle")
	if err != nil {
		return errorResult("get_page", project, err), nil
	}

	page, err := s.svc.Get(ctx, project, title)
	if err != nil {
		return mcp.NewToolResultError(strings.Join([]string{
			fmt.Sprintf("Error: Page %q not found", title),
			"Operation: get_page",
			"Project: " + project,
			"Status: 404",
			"Timestamp: " + timestamp(),
		}, "\n")), nil
	}

	return mcp.NewToolResultText(pages.FormatPageDetail(page)), nil
}

func (s *Server) searchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return errorResult("search_pages", s.cfg.Project, err), nil
	}

	results, err := s.svc.Search(ctx, s.cfg.Project, query)
	if err != nil {
		return errorResult("search_pages", s.cfg.Project, err, "Query: "+query), nil
	}

	var b strings.Builder
	b.WriteString(strings.Join([]string{
		"Project: " + s.cfg.Project,
		"Search query: " + results.SearchQuery,
		fmt.Sprintf("Total results: %d", results.Count),
		"---",
	}, "\n") + "\n")

	blocks := make([]string, 0, len(results.Pages))
	for i := range results.Pages {
		blocks = append(blocks, pages.FormatPage(&results.Pages[i], i, pages.FormatOptions{
			IsSearchResult: true,
			ShowMatches:    true,
			ShowSnippet:    true,
		})+"\n---")
	}
	b.WriteString(strings.Join(blocks, "\n"))

	// The backend caps hits at the reported limit with no way to page
	// past it; say so whenever the cap is reached.
	if results.Limit > 0 && results.Count >= results.Limit {
		b.WriteString(fmt.Sprintf("\nNote: results are limited to %d pages", results.Limit))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) createPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := s.project(req)

	title, err := req.RequireString("title")
	if err != nil {
		return errorResult("create_page", project, err), nil
	}
	body := req.GetString("body", "")

	url, err := s.svc.CreateURL(project, title, body, markdown.Options{
		ConvertNumberedLists: s.cfg.ConvertNumberedLists,
	})
	if err != nil {
		return errorResult("create_page", project, err, "Title: "+title), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created page: %s\nURL: %s", title, url)), nil
}

func (s *Server) getPageURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := s.project(req)

	title, err := req.RequireString("title")
	if err != nil {
		return errorResult("get_page_url", project, err), nil
	}

	return mcp.NewToolResultText(s.svc.PageURL(project, title)), nil
}

func (s *Server) insertLines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := s.project(req)

	title, err := req.RequireString("pageTitle")
	if err != nil {
		return errorResult("insert_lines", project, err), nil
	}
	target, err := req.RequireString("targetLineText")
	if err != nil {
		return errorResult("insert_lines", project, err, "Page: "+title), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return errorResult("insert_lines", project, err, "Page: "+title), nil
	}

	report, err := s.svc.InsertLines(ctx, project, title, target, text)
	if errors.Is(err, apperr.ErrAuthRequired) {
		return mcp.NewToolResultError(strings.Join([]string{
			"Error: Authentication required",
			"Operation: insert_lines",
			"Message: a session credential is required for page editing",
			"Project: " + project,
			"Page: " + title,
			"Timestamp: " + timestamp(),
		}, "\n")), nil
	}
	if err != nil {
		return errorResult("insert_lines", project, err,
			"Page: "+title,
			fmt.Sprintf("Target line: %q", target),
		), nil
	}

	targetLine := "not found (appended to end)"
	if report.TargetFound {
		targetLine = "found"
	}
	return mcp.NewToolResultText(strings.Join([]string{
		"Successfully inserted lines into page",
		"Operation: insert_lines",
		"Project: " + project,
		"Page: " + title,
		fmt.Sprintf("Target line: %q (%s)", target, targetLine),
		fmt.Sprintf("Inserted lines: %d", report.InsertedLines),
		"Timestamp: " + timestamp(),
	}, "\n")), nil
}

// readPageResource serves one cosense:/// page resource.
func (s *Server) readPageResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	title := strings.TrimPrefix(req.Params.URI, "cosense:///")
	if title == "" {
		return nil, fmt.Errorf("invalid page resource URI: %s", req.Params.URI)
	}

	page, err := s.svc.Get(ctx, s.cfg.Project, title)
	if err != nil {
		return nil, fmt.Errorf("page %s not found", title)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     pages.FormatPageDetail(page),
		},
	}, nil
}
