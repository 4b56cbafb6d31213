// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the sitefrag passes as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sitefrag/internal/apperr"
	"github.com/starford/sitefrag/internal/models"
	"github.com/starford/sitefrag/internal/siteservice"
)

const (
	navigationURI = "sitefrag://navigation"
	contractURI   = "sitefrag://fragment-format"
)

// Server wraps the MCP server with sitefrag tools.
type Server struct {
	mcp *server.MCPServer
	svc *siteservice.Service
}

// New creates a new MCP server with all tools registered. svc must not print
// progress to stdout, which carries the protocol.
func New(svc *siteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"sitefrag",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the home page and every subpage with its state "+
			"against the rewrite journal (in-sync, modified, untracked, missing)."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("resolve_nav",
		mcp.WithDescription("Resolve a navigation entry to its href on the home page and on a subpage."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Navigation entry id (e.g. about, derma, home)")),
	), s.resolveNav)

	s.mcp.AddTool(mcp.NewTool("inline_pages",
		mcp.WithDescription("Embed page-specific copies of the shared header and footer into "+
			"the home page and every subpage. Stops at the first page that fails."),
	), s.inlinePages)

	s.mcp.AddTool(mcp.NewTool("extract_pages",
		mcp.WithDescription("Replace the literal header and footer of every subpage with loader "+
			"placeholders. Pages that fail are reported and skipped."),
	), s.extractPages)

	s.mcp.AddTool(mcp.NewTool("read_fragment",
		mcp.WithDescription("Read the raw markup of a shared fragment. Read the fragment contract "+
			"(get_fragment_contract or the "+contractURI+" resource) before editing it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Fragment name: header or footer")),
	), s.readFragment)

	s.mcp.AddTool(mcp.NewTool("get_fragment_contract",
		mcp.WithDescription("Returns the markup conventions the shared fragments must follow."),
	), s.getFragmentContract)

	s.mcp.AddResource(
		mcp.NewResource(navigationURI, "Navigation Table",
			mcp.WithResourceDescription("The navigation entries that drive header, mobile and footer links."),
			mcp.WithMIMEType("application/json"),
		),
		s.readNavigationResource,
	)
	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Fragment Contract",
			mcp.WithResourceDescription("Markup conventions of includes/header.html and includes/footer.html."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses, err := s.svc.Status()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(statuses)
}

func (s *Server) resolveNav(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	links, err := s.svc.Resolve(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(links)
}

func (s *Server) inlinePages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run, err := s.svc.Inline(ctx)
	return runResult(run, err)
}

func (s *Server) extractPages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run, err := s.svc.Extract(ctx)
	return runResult(run, err)
}

func runResult(run *models.RunSummary, err error) (*mcp.CallToolResult, error) {
	if run == nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error() + "\n" + string(out)), nil
	}
	if run.Count(models.OutcomeFailed) > 0 {
		return mcp.NewToolResultError(string(out)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readFragment(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.svc.Fragment(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("not found: " + name), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) getFragmentContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FragmentContract), nil
}

func (s *Server) readNavigationResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(s.svc.Table(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      navigationURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     FragmentContract,
		},
	}, nil
}
