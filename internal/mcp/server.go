package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jcdickinson/pywtf/internal/browse"
)

//go:embed instructions.md
var instructions string

const resourceScheme = "pydoc://"

type Server struct {
	mcpServer *server.MCPServer
	svc       *browse.Service
}

func NewServer(svc *browse.Service, version string) *Server {
	s := &Server{svc: svc}

	mcpServer := server.NewMCPServer(
		"pywtf",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_projects",
			mcp.WithDescription("List the Python projects available in the documentation index."),
		),
		s.handleListProjects,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_symbols",
			mcp.WithDescription("Search modules, classes, functions and variables by name. Exact matches rank first, then prefix, substring and fuzzy matches. Omit `project` to search every indexed project."),
			mcp.WithString("query",
				mcp.Description("Name or partial name to search for"),
				mcp.Required(),
			),
			mcp.WithString("project",
				mcp.Description("Optional project to search within"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 50)"),
			),
		),
		s.handleSearchSymbols,
	)

	mcpServer.AddTool(
		mcp.NewTool("resolve_symbol",
			mcp.WithDescription("Resolve a symbol within a module and return its signature, documentation and members. Nested classes use dotted names such as `Outer.Inner`."),
			mcp.WithString("project",
				mcp.Description("Project name (e.g., \"requests\")"),
				mcp.Required(),
			),
			mcp.WithString("module",
				mcp.Description("Dotted module name (e.g., \"requests.sessions\")"),
				mcp.Required(),
			),
			mcp.WithString("symbol",
				mcp.Description("Symbol name relative to the module"),
				mcp.Required(),
			),
		),
		s.handleResolveSymbol,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			resourceScheme+"{project}/{module}/{symbol}",
			"Python documentation symbol",
			mcp.WithTemplateDescription("Read a resolved Python symbol. Search results carry the project, module and name for these URIs."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := s.svc.Projects(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing projects failed: %v", err)), nil
	}
	return jsonResult(resp.Projects), nil
}

func (s *Server) handleSearchSymbols(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	project, _ := args["project"].(string)

	var limit int
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	resp, err := s.svc.Search(ctx, project, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(resp), nil
}

func (s *Server) handleResolveSymbol(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	project, _ := args["project"].(string)
	module, _ := args["module"].(string)
	symbol, _ := args["symbol"].(string)
	switch "" {
	case project:
		return mcp.NewToolResultError("missing required parameter: project"), nil
	case module:
		return mcp.NewToolResultError("missing required parameter: module"), nil
	case symbol:
		return mcp.NewToolResultError("missing required parameter: symbol"), nil
	}

	resp, err := s.svc.Symbol(ctx, project, module, symbol)
	if err != nil {
		if browse.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("%s/%s/%s: %v", project, module, symbol, err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("resolve failed: %v", err)), nil
	}
	return mcp.NewToolResultText(resp.Markdown), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	project, module, symbol, err := parseURI(uri)
	if err != nil {
		return nil, err
	}

	resp, err := s.svc.Symbol(ctx, project, module, symbol)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", uri, err)
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding symbol: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// parseURI splits pydoc://project/module/symbol. Module names are dotted, so
// only the first two slashes separate components.
func parseURI(uri string) (project, module, symbol string, err error) {
	trimmed, ok := strings.CutPrefix(uri, resourceScheme)
	if !ok {
		return "", "", "", fmt.Errorf("invalid resource URI: %s", uri)
	}
	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("invalid resource URI: %s", uri)
	}
	return parts[0], parts[1], parts[2], nil
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	resultJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}
	return mcp.NewToolResultText(string(resultJSON))
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Shutdown(_ context.Context) error {
	return nil
}
