package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcdickinson/pywtf/internal/browse"
	"github.com/jcdickinson/pywtf/internal/docs"
	"github.com/jcdickinson/pywtf/internal/rpc"
	"github.com/jcdickinson/pywtf/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "browse", "testdata", "project-alpha.json"))
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project-alpha.json"), data, 0644))
	return NewServer(browse.New(store.New(dir), nil, docs.URLs{}, 0), "test")
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestListProjects(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	res, err := s.handleListProjects(context.Background(), callTool(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var projects []rpc.ProjectSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "project-alpha", projects[0].Name)
}

func TestSearchSymbols(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleSearchSymbols(ctx, callTool(map[string]any{
		"query":   "bar",
		"project": "project-alpha",
		"limit":   float64(5),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var resp rpc.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "alpha.foo.bar", resp.Results[0].FQName)

	res, err = s.handleSearchSymbols(ctx, callTool(map[string]any{"query": "  "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleSearchSymbols(ctx, callTool(map[string]any{"query": "bar", "project": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestResolveSymbol(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleResolveSymbol(ctx, callTool(map[string]any{
		"project": "project-alpha",
		"module":  "alpha.foo",
		"symbol":  "unzip",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "# alpha.foo.unzip")

	res, err = s.handleResolveSymbol(ctx, callTool(map[string]any{
		"project": "project-alpha",
		"module":  "alpha.foo",
	}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "symbol")

	res, err = s.handleResolveSymbol(ctx, callTool(map[string]any{
		"project": "project-alpha",
		"module":  "alpha.foo",
		"symbol":  "nope",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestReadResource(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	var req mcp.ReadResourceRequest
	req.Params.URI = "pydoc://project-alpha/alpha.core/Helper.Utils"
	contents, err := s.handleReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var sym rpc.SymbolResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &sym))
	assert.Equal(t, "alpha.core.Helper.Utils", sym.FQName)

	req.Params.URI = "pydoc://project-alpha/alpha.core/Nope"
	_, err = s.handleReadResource(context.Background(), req)
	require.ErrorIs(t, err, browse.ErrSymbolNotFound)
}

func TestParseURI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		uri                     string
		project, module, symbol string
		wantErr                 bool
	}{
		{uri: "pydoc://p/a.b/C.D", project: "p", module: "a.b", symbol: "C.D"},
		{uri: "pydoc://p/a/b/c", project: "p", module: "a", symbol: "b/c"},
		{uri: "pydoc://p/a", wantErr: true},
		{uri: "pydoc://p//C", wantErr: true},
		{uri: "rsdoc://p/a/C", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			project, module, symbol, err := parseURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.project, project)
			assert.Equal(t, tt.module, module)
			assert.Equal(t, tt.symbol, symbol)
		})
	}
}
