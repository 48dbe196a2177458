// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/service"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *service.Service
	dataRoot string
	baseURL  string
}

// New creates a new MCP server with all Ansuz tools registered.
// dataRoot is the directory holding the attachments folder; baseURL is
// the public base uploaded assets are served from.
func New(svc *service.Service, dataRoot, baseURL string) *Server {
	s := &Server{svc: svc, dataRoot: dataRoot, baseURL: baseURL}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notebooks",
		mcp.WithDescription("List all notebooks with their page counts."),
	), s.listNotebooks)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the pages of a notebook."),
		mcp.WithString("notebook_id", mcp.Required(), mcp.Description("Notebook ID")),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read a page as markdown text. The response includes the page "+
			"checksum; pass it back to update_page for conflict-safe edits."),
		mcp.WithString("notebook_id", mcp.Required(), mcp.Description("Notebook ID")),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
	), s.readPage)

	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a page in a notebook from markdown text. "+
			"Content MUST follow the canonical block format (paragraphs, fenced code, "+
			"pipe tables, checkboxes, file links). Read the contract first via the "+
			"get_block_contract tool or the ansuz://block-format resource."),
		mcp.WithString("notebook_id", mcp.Required(), mcp.Description("Notebook ID")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content following the Ansuz block format contract")),
	), s.createPage)

	s.mcp.AddTool(mcp.NewTool("update_page",
		mcp.WithDescription("Replace a page's content from markdown text. Pass the checksum "+
			"returned by read_page to detect concurrent edits."),
		mcp.WithString("notebook_id", mcp.Required(), mcp.Description("Notebook ID")),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content following the Ansuz block format contract")),
		mcp.WithString("checksum", mcp.Description("Optional checksum of the current content for optimistic concurrency")),
	), s.updatePage)

	s.mcp.AddTool(mcp.NewTool("search_pages",
		mcp.WithDescription("Full-text search through page content and titles across all notebooks."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPages)

	s.mcp.AddTool(mcp.NewTool("get_block_contract",
		mcp.WithDescription("Returns the canonical Ansuz block format contract. "+
			"Call this before creating or updating pages to ensure correct structure."),
	), s.getBlockContract)

	s.mcp.AddTool(mcp.NewTool("upload_asset",
		mcp.WithDescription("Download a file from an HTTP(S) URL or decode a data: URI and "+
			"store it in the attachments directory. Returns the URL to use in file link blocks."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL or base64 data: URI of the file")),
		mcp.WithString("filename", mcp.Description("Optional target filename (extension must be allowed)")),
	), s.uploadAsset)

	// Resource: block format contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://block-format", "Block Format Contract",
			mcp.WithResourceDescription("Canonical markdown block format that all page content must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readBlockFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotebooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.svc.ListNotebooks(ctx)
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notebookID, err := req.RequireString("notebook_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pages, err := s.svc.ListPages(ctx, notebookID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("notebook not found: %s", notebookID)), nil
	}
	out, _ := json.MarshalIndent(pages, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notebookID, err := req.RequireString("notebook_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pageID, err := req.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, sum, err := s.svc.PageText(ctx, notebookID, pageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("page not found: %s", pageID)), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "checksum: %s\n\n", sum)
	b.WriteString(text)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) createPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notebookID, err := req.RequireString("notebook_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, err := s.svc.CreatePage(ctx, notebookID, "", title, markdown.Parse(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (checksum %s)", p.ID, p.Checksum)), nil
}

func (s *Server) updatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notebookID, err := req.RequireString("notebook_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pageID, err := req.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum := ""
	if v, csErr := req.RequireString("checksum"); csErr == nil {
		sum = v
	}

	p, err := s.svc.SetPageText(ctx, notebookID, pageID, content, sum)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s (checksum %s)", p.ID, p.Checksum)), nil
}

func (s *Server) searchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getBlockContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(BlockFormatContract), nil
}

func (s *Server) readBlockFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://block-format",
			MIMEType: "text/markdown",
			Text:     BlockFormatContract,
		},
	}, nil
}
