package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jcdickinson/pywtf/internal/rpc"
)

// Client talks to a running pywtf server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(addr string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Projects(ctx context.Context) (*rpc.ProjectsResponse, error) {
	var resp rpc.ProjectsResponse
	err := c.get(ctx, "/api/projects", nil, &resp)
	return &resp, err
}

func (c *Client) Project(ctx context.Context, project string) (*rpc.ProjectResponse, error) {
	var resp rpc.ProjectResponse
	err := c.get(ctx, "/api/projects/"+url.PathEscape(project), nil, &resp)
	return &resp, err
}

func (c *Client) Module(ctx context.Context, project, module string) (*rpc.ModuleResponse, error) {
	var resp rpc.ModuleResponse
	path := fmt.Sprintf("/api/projects/%s/modules/%s", url.PathEscape(project), url.PathEscape(module))
	err := c.get(ctx, path, nil, &resp)
	return &resp, err
}

func (c *Client) Symbol(ctx context.Context, project, module, symbol string) (*rpc.SymbolResponse, error) {
	var resp rpc.SymbolResponse
	path := fmt.Sprintf("/api/projects/%s/modules/%s/symbols/%s",
		url.PathEscape(project), url.PathEscape(module), url.PathEscape(symbol))
	err := c.get(ctx, path, nil, &resp)
	return &resp, err
}

// Search queries one project, or every indexed project when project is empty.
func (c *Client) Search(ctx context.Context, project, query string, limit int) (*rpc.SearchResponse, error) {
	params := url.Values{"q": {query}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/search"
	if project != "" {
		path = "/api/projects/" + url.PathEscape(project) + "/search"
	}

	var resp rpc.SearchResponse
	err := c.get(ctx, path, params, &resp)
	return &resp, err
}

func (c *Client) ClearCache(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cache/clear", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	var resp rpc.ClearCacheResponse
	return c.do(req, &resp)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr rpc.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return &StatusError{Code: resp.StatusCode, Message: apiErr.Error}
		}
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// NotFound reports whether the server answered 404.
func (e *StatusError) NotFound() bool { return e.Code == http.StatusNotFound }
