package browse

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jcdickinson/pywtf/internal/catalog"
	"github.com/jcdickinson/pywtf/internal/docs"
	md "github.com/jcdickinson/pywtf/internal/markdown"
	"github.com/jcdickinson/pywtf/internal/rpc"
	"github.com/jcdickinson/pywtf/internal/search"
	"github.com/jcdickinson/pywtf/internal/store"
)

var (
	ErrModuleNotFound = errors.New("module not found")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrNoCatalog      = errors.New("catalog not configured")
)

// IsNotFound reports whether err means a project, module or symbol does not
// exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrProjectNotFound) ||
		errors.Is(err, ErrModuleNotFound) ||
		errors.Is(err, ErrSymbolNotFound)
}

// Service answers browse, resolve and search requests on top of the project
// repository. The catalog is optional.
type Service struct {
	repo    *store.Repository
	indexes *search.Cache
	catalog *catalog.Catalog
	urls    docs.URLs
	limit   int
}

func New(repo *store.Repository, cat *catalog.Catalog, urls docs.URLs, limit int) *Service {
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	return &Service{
		repo:    repo,
		indexes: search.NewCache(urls, search.WithLimit(limit)),
		catalog: cat,
		urls:    urls,
		limit:   limit,
	}
}

func (s *Service) Repository() *store.Repository { return s.repo }

// Raw returns a project's index document as stored on disk.
func (s *Service) Raw(name string) ([]byte, error) {
	return s.repo.Raw(name)
}

func (s *Service) resolver(p *docs.Project) md.Resolver {
	return func(x docs.XRef) (string, bool) {
		return s.urls.XRef(p, x)
	}
}

func (s *Service) render(p *docs.Project, documentation []string) string {
	return md.RewriteRoles(strings.Join(documentation, "\n\n"), s.resolver(p))
}

// Projects lists every project in the index directory. Catalog data fills in
// versions and counts when available.
func (s *Service) Projects(ctx context.Context) (*rpc.ProjectsResponse, error) {
	names, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	recorded := make(map[string]catalog.Project)
	if s.catalog != nil {
		list, err := s.catalog.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			recorded[p.Key] = p
		}
	}

	resp := &rpc.ProjectsResponse{Projects: make([]rpc.ProjectSummary, 0, len(names))}
	for _, name := range names {
		summary := rpc.ProjectSummary{Name: name, URL: s.urls.Base + "/" + name}
		if p, ok := recorded[docs.NormalizeProjectName(name)]; ok {
			summary.Name = p.Name
			summary.URL = s.urls.Base + "/" + p.Name
			summary.Version = p.Version
			summary.Summary = p.Summary
			summary.Modules = p.Modules
			summary.Symbols = p.Symbols
			summary.Indexed = true
		}
		resp.Projects = append(resp.Projects, summary)
	}
	return resp, nil
}

// IndexMetadata describes the index directory.
func (s *Service) IndexMetadata(ctx context.Context) (*rpc.IndexMetadata, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return &rpc.IndexMetadata{Projects: projects.Projects}, nil
}

func (s *Service) Project(ctx context.Context, name string) (*rpc.ProjectResponse, error) {
	p, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	resp := &rpc.ProjectResponse{
		Name:             p.Name,
		Version:          p.Metadata.Version,
		Summary:          p.Metadata.Summary,
		HomePage:         p.Metadata.HomePage,
		License:          p.Metadata.License,
		DocumentationURL: p.Metadata.DocumentationURL,
		Classifiers:      p.Metadata.Classifiers,
		Dependencies:     p.Metadata.Dependencies,
		URL:              s.urls.Project(p),
		Documentation:    s.render(p, p.Documentation),
		Modules:          make([]rpc.ModuleSummary, 0, len(p.Modules)),
	}
	for i := range p.Modules {
		m := &p.Modules[i]
		resp.Modules = append(resp.Modules, rpc.ModuleSummary{
			Name:    m.Name,
			URL:     s.urls.Module(p, m),
			Summary: md.Summary(m.Documentation),
		})
	}
	return resp, nil
}

func (s *Service) module(ctx context.Context, project, module string) (*docs.Project, *docs.Module, error) {
	p, err := s.repo.Get(ctx, project)
	if err != nil {
		return nil, nil, err
	}
	m, ok := p.Module(module)
	if !ok {
		return nil, nil, fmt.Errorf("%s in %s: %w", module, p.Name, ErrModuleNotFound)
	}
	return p, m, nil
}

// Module lists a module's members with names relative to the module.
func (s *Service) Module(ctx context.Context, project, module string) (*rpc.ModuleResponse, error) {
	p, m, err := s.module(ctx, project, module)
	if err != nil {
		return nil, err
	}

	resp := &rpc.ModuleResponse{
		Project:       p.Name,
		Name:          m.Name,
		URL:           s.urls.Module(p, m),
		Documentation: s.render(p, m.Documentation),
		Classes:       make([]rpc.Member, 0, len(m.Classes)),
		Functions:     make([]rpc.Member, 0, len(m.Functions)),
		Variables:     make([]rpc.Member, 0, len(m.Variables)),
		Exports:       make([]rpc.Member, 0, len(m.Exports)),
	}
	for i := range m.Classes {
		c := &m.Classes[i]
		resp.Classes = append(resp.Classes, s.member(p, m, m.Name, c.Name, docs.KindClass, docs.ClassSignature(c), c.Documentation))
	}
	for i := range m.Functions {
		f := &m.Functions[i]
		resp.Functions = append(resp.Functions, s.member(p, m, m.Name, f.Name, docs.KindFunction, docs.FunctionSignature(f), f.Documentation))
	}
	for i := range m.Variables {
		v := &m.Variables[i]
		resp.Variables = append(resp.Variables, s.member(p, m, m.Name, v.Name, docs.KindVariable, docs.VariableSignature(v), v.Documentation))
	}
	for i := range m.Exports {
		e := &m.Exports[i]
		resp.Exports = append(resp.Exports, s.member(p, m, m.Name, e.Name, docs.KindExport, "", nil))
	}
	for _, members := range [][]rpc.Member{resp.Classes, resp.Functions, resp.Variables, resp.Exports} {
		sortMembers(members)
	}
	return resp, nil
}

// sortMembers orders a member listing by fully-qualified name.
func sortMembers(members []rpc.Member) {
	slices.SortStableFunc(members, func(a, b rpc.Member) int {
		return cmp.Compare(a.FQName, b.FQName)
	})
}

func (s *Service) member(p *docs.Project, m *docs.Module, owner, name string, kind docs.Kind, signature string, documentation []string) rpc.Member {
	return rpc.Member{
		Name:      docs.WithoutPrefix(owner, name),
		FQName:    name,
		Kind:      string(kind),
		URL:       s.urls.Symbol(p, m, name),
		Signature: signature,
		Summary:   md.Summary(documentation),
	}
}

// Search queries one project, or every project when project is empty.
// Cross-project search goes through the catalog when one is configured and
// scans the index directory otherwise.
func (s *Service) Search(ctx context.Context, project, query string, limit int) (*rpc.SearchResponse, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	var matches []search.Result
	switch {
	case project != "":
		p, err := s.repo.Get(ctx, project)
		if err != nil {
			return nil, err
		}
		matches = s.indexes.Get(p).SearchLimit(query, limit).Matches
	case s.catalog != nil:
		var err error
		matches, err = s.catalog.Search(ctx, query, nil, limit)
		if err != nil {
			return nil, err
		}
	default:
		var err error
		matches, err = s.scan(ctx, query, limit)
		if err != nil {
			return nil, err
		}
	}

	slog.DebugContext(ctx, "search", "project", project, "query", query, "results", len(matches))
	return searchResponse(query, matches), nil
}

func (s *Service) scan(ctx context.Context, query string, limit int) ([]search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return []search.Result{}, nil
	}
	names, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	var all []search.Descriptor
	for _, name := range names {
		p, err := s.repo.Get(ctx, name)
		if err != nil {
			slog.WarnContext(ctx, "skipping project", "project", name, "error", err)
			continue
		}
		all = append(all, s.indexes.Get(p).Descriptors()...)
	}
	return search.Rank(query, all, limit), nil
}

func searchResponse(query string, matches []search.Result) *rpc.SearchResponse {
	resp := &rpc.SearchResponse{
		Query:   query,
		Total:   len(matches),
		Results: make([]rpc.SearchResult, 0, len(matches)),
	}
	for _, m := range matches {
		spans := make([]rpc.Span, len(m.Highlights))
		for i, h := range m.Highlights {
			spans[i] = rpc.Span{Start: h.Start, End: h.End}
		}
		resp.Results = append(resp.Results, rpc.SearchResult{
			Name:       m.Name,
			FQName:     m.FQName,
			Kind:       string(m.Kind),
			URL:        m.URL,
			Module:     m.Module,
			Project:    m.Project,
			Summary:    m.Summary,
			Score:      m.Score,
			Highlights: spans,
		})
	}
	return resp
}

// Invalidate drops cached state for the named projects.
func (s *Service) Invalidate(names ...string) {
	for _, name := range names {
		s.repo.Invalidate(name)
		s.indexes.Invalidate(name)
	}
}

// ClearCaches drops every cached project and search index.
func (s *Service) ClearCaches() {
	s.repo.Clear()
	s.indexes.Clear()
	slog.Info("caches cleared")
}
