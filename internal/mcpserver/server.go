// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes a Cosense project's pages as tools and resources via
// stdio transport.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/maribelle/cosgo/internal/cosense"
	"github.com/maribelle/cosgo/internal/pages"
	"github.com/maribelle/cosgo/internal/pageservice"
)

// resourceFetchLimit is the fixed batch size of the resource
// bootstrap; the configured page limit only narrows what gets
// registered out of that batch.
const resourceFetchLimit = 100

// Config carries the per-project settings the tool surface needs.
type Config struct {
	Project              string
	ServiceLabel         string
	ToolSuffix           string
	PageLimit            int
	SortMethod           string
	ExcludePinned        bool
	ConvertNumberedLists bool
}

// Server wraps the MCP server with the Cosense page tools.
type Server struct {
	mcp *server.MCPServer
	svc *pageservice.Service
	cfg Config
}

// New creates a new MCP server with all page tools registered.
func New(svc *pageservice.Service, cfg Config) *Server {
	s := &Server{svc: svc, cfg: cfg}

	s.mcp = server.NewMCPServer(
		"Cosgo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	project := cfg.Project
	label := cfg.ServiceLabel

	s.mcp.AddTool(mcp.NewTool(s.toolName("list_pages"),
		mcp.WithDescription(fmt.Sprintf("Browse and list pages from %s project on %s with flexible sorting and pagination. "+
			"Use this tool to discover pages by recency, popularity, or alphabetically. "+
			"Returns page metadata and first 5 lines of content. "+
			"Available sorting methods: updated (last update time), created (creation time), accessed (access time), "+
			"linked (number of incoming links), views (view count), title (alphabetical). "+
			"Different from search_pages which finds content by keywords.", project, label)),
		mcp.WithString("sort", mcp.Description("Sort method for the page list"),
			mcp.Enum(pages.ValidSortMethods...)),
		mcp.WithNumber("limit", mcp.Description("Maximum number of pages to return (1-1000)")),
		mcp.WithNumber("skip", mcp.Description("Number of pages to skip")),
		mcp.WithBoolean("excludePinned", mcp.Description("Whether to exclude pinned pages from the results")),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool(s.toolName("get_page"),
		mcp.WithDescription(fmt.Sprintf("Get a page from %s project on %s. Returns page content and its linked pages. "+
			"Page content includes title and description in plain text format.", project, label)),
		mcp.WithString("pageTitle", mcp.Required(), mcp.Description("Title of the page")),
		mcp.WithString("projectName", mcp.Description("Optional project name overriding the configured default")),
	), s.getPage)

	s.mcp.AddTool(mcp.NewTool(s.toolName("search_pages"),
		mcp.WithDescription(fmt.Sprintf("Search for content within pages in %s project on %s. "+
			"Use this tool to find pages containing specific keywords or phrases. "+
			"Returns matching pages with highlighted search terms and content snippets. "+
			"Limited to 100 results maximum. "+
			"Supports basic search (\"keyword\"), multiple keywords (\"word1 word2\" for AND search), "+
			"exclude words (\"word1 -word2\"), and exact phrases (\"\\\"exact phrase\\\"\"). "+
			"Different from list_pages which browses pages by metadata.", project, label)),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPages)

	s.mcp.AddTool(mcp.NewTool(s.toolName("create_page"),
		mcp.WithDescription(fmt.Sprintf("Create a new page in %s project on %s. "+
			"Creates a new page with the specified title and optional body text. "+
			"The returned URL opens the page with its content pre-filled.", project, label)),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the new page")),
		mcp.WithString("body", mcp.Description("Content in markdown format that will be converted to Scrapbox format. "+
			"Supports standard markdown syntax including links, code blocks, lists, and emphasis.")),
		mcp.WithString("projectName", mcp.Description("Optional project name overriding the configured default")),
	), s.createPage)

	s.mcp.AddTool(mcp.NewTool(s.toolName("get_page_url"),
		mcp.WithDescription(fmt.Sprintf("Get the browser URL of a page in %s project on %s.", project, label)),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the page")),
		mcp.WithString("projectName", mcp.Description("Optional project name overriding the configured default")),
	), s.getPageURL)

	s.mcp.AddTool(mcp.NewTool(s.toolName("insert_lines"),
		mcp.WithDescription(fmt.Sprintf("Insert lines into an existing page in %s project on %s. "+
			"The new text is inserted after the first line containing the target text, "+
			"or appended at the end when no line matches. Requires a session credential.", project, label)),
		mcp.WithString("pageTitle", mcp.Required(), mcp.Description("Title of the page to edit")),
		mcp.WithString("targetLineText", mcp.Required(), mcp.Description("Text of the line to insert after")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to insert (may span multiple lines)")),
		mcp.WithString("projectName", mcp.Description("Optional project name overriding the configured default")),
	), s.insertLines)

	return s
}

// toolName appends the configured suffix, letting several projects
// register side by side in one agent without name collisions.
func (s *Server) toolName(base string) string {
	if s.cfg.ToolSuffix == "" {
		return base
	}
	return base + "_" + s.cfg.ToolSuffix
}

// BootstrapResources fetches one sorted batch of pages and registers
// each as a cosense:/// text resource. A failed fetch leaves the
// server running with no page resources.
func (s *Server) BootstrapResources(ctx context.Context) error {
	result := s.svc.ListBatch(ctx, s.cfg.Project, cosense.ListOptions{
		Limit:         resourceFetchLimit,
		Sort:          s.cfg.SortMethod,
		ExcludePinned: s.cfg.ExcludePinned,
	})
	if result.Debug != nil && result.Debug.Error != "" {
		return fmt.Errorf("bootstrap resources: %s", result.Debug.Error)
	}

	limit := s.cfg.PageLimit
	if limit > len(result.Pages) {
		limit = len(result.Pages)
	}
	for _, page := range result.Pages[:limit] {
		title := page.Title
		s.mcp.AddResource(
			mcp.NewResource("cosense:///"+title, title,
				mcp.WithResourceDescription("A text page: "+title),
				mcp.WithMIMEType("text/plain"),
			),
			s.readPageResource,
		)
	}
	return nil
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}
