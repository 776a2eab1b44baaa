package rpc

// ProjectsResponse is the response body for GET /api/projects.
type ProjectsResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

type ProjectSummary struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Summary string `json:"summary,omitempty"`
	URL     string `json:"url"`
	Modules int    `json:"modules,omitempty"`
	Symbols int    `json:"symbols,omitempty"`
	Indexed bool   `json:"indexed"` // recorded in the catalog
}

// ProjectResponse is the response body for GET /api/projects/{project}.
type ProjectResponse struct {
	Name             string          `json:"name"`
	Version          string          `json:"version"`
	Summary          string          `json:"summary,omitempty"`
	HomePage         string          `json:"home_page,omitempty"`
	License          string          `json:"license,omitempty"`
	DocumentationURL string          `json:"documentation_url,omitempty"`
	Classifiers      []string        `json:"classifiers"`
	Dependencies     []string        `json:"dependencies"`
	URL              string          `json:"url"`
	Documentation    string          `json:"documentation,omitempty"`
	Modules          []ModuleSummary `json:"modules"`
}

type ModuleSummary struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Summary string `json:"summary,omitempty"`
}

// ModuleResponse is the response body for GET /api/projects/{project}/modules/{module}.
type ModuleResponse struct {
	Project       string   `json:"project"`
	Name          string   `json:"name"`
	URL           string   `json:"url"`
	Documentation string   `json:"documentation,omitempty"`
	Classes       []Member `json:"classes"`
	Functions     []Member `json:"functions"`
	Variables     []Member `json:"variables"`
	Exports       []Member `json:"exports"`
}

// Member is a declaration listed on a module or class page. Name is relative
// to the owner.
type Member struct {
	Name      string `json:"name"`
	FQName    string `json:"fqname"`
	Kind      string `json:"kind"`
	URL       string `json:"url,omitempty"`
	Signature string `json:"signature,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// SymbolResponse is the response body for
// GET /api/projects/{project}/modules/{module}/symbols/{symbol}.
type SymbolResponse struct {
	Project     string       `json:"project"`
	Module      string       `json:"module"`
	Symbol      string       `json:"symbol"`
	FQName      string       `json:"fqname"`
	Kind        string       `json:"kind"`
	URL         string       `json:"url"`
	Signature   string       `json:"signature,omitempty"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Bases       []string     `json:"bases,omitempty"`
	Members     []Member     `json:"members,omitempty"`
	Target      *Target      `json:"target,omitempty"` // where an export points
	Markdown    string       `json:"markdown"`
}

type Breadcrumb struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Target is the destination of an export. Internal targets carry the module
// and symbol they resolved to; external ones only a URL.
type Target struct {
	Project string `json:"project"`
	FQName  string `json:"fqname"`
	URL     string `json:"url,omitempty"`
	Module  string `json:"module,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// SearchResponse is the response body for both search endpoints.
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}

type SearchResult struct {
	Name       string `json:"name"`
	FQName     string `json:"fqname"`
	Kind       string `json:"kind"`
	URL        string `json:"url"`
	Module     string `json:"module"`
	Project    string `json:"project"`
	Summary    string `json:"summary,omitempty"`
	Score      int    `json:"score"`
	Highlights []Span `json:"highlights"`
}

// Span is a half-open byte range of SearchResult.Name.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IndexMetadata is served as the index directory metadata document.
type IndexMetadata struct {
	Projects []ProjectSummary `json:"projects"`
}

// ClearCacheResponse is the response body for POST /api/cache/clear.
type ClearCacheResponse struct {
	Status string `json:"status"`
}

// SyncResult reports one project recorded in the catalog.
type SyncResult struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Symbols int    `json:"symbols"`
	Error   string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
