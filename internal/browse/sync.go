package browse

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jcdickinson/pywtf/internal/docs"
	"github.com/jcdickinson/pywtf/internal/rpc"
)

// Sync records every project in the index directory in the catalog and
// removes catalog entries whose index files are gone. Failures for single
// projects are reported in their result and do not stop the others.
func (s *Service) Sync(ctx context.Context, concurrency int, progress func(rpc.SyncResult)) ([]rpc.SyncResult, error) {
	if s.catalog == nil {
		return nil, ErrNoCatalog
	}
	names, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	if err := s.prune(ctx, names); err != nil {
		return nil, err
	}

	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]rpc.SyncResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, name := range names {
		g.Go(func() error {
			results[i] = s.syncOne(gctx, name)
			if progress != nil {
				progress(results[i])
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (s *Service) syncOne(ctx context.Context, name string) rpc.SyncResult {
	result := rpc.SyncResult{Name: name}

	p, err := s.repo.Get(ctx, name)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Version = p.Metadata.Version

	ix := s.indexes.Get(p)
	if _, err := s.catalog.UpsertProject(ctx, p, ix.Descriptors()); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Symbols = len(ix.Descriptors())
	slog.InfoContext(ctx, "synced project", "project", p.Name, "version", result.Version, "symbols", result.Symbols)
	return result
}

func (s *Service) prune(ctx context.Context, present []string) error {
	keep := make(map[string]bool, len(present))
	for _, name := range present {
		keep[docs.NormalizeProjectName(name)] = true
	}
	recorded, err := s.catalog.ListProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range recorded {
		if keep[p.Key] {
			continue
		}
		if err := s.catalog.RemoveProject(ctx, p.Name); err != nil {
			return fmt.Errorf("removing %s from catalog: %w", p.Name, err)
		}
		slog.InfoContext(ctx, "removed project from catalog", "project", p.Name)
	}
	return nil
}

// Refresh reacts to changed index files: cached state is dropped and, with a
// catalog, the affected projects are re-recorded or removed.
func (s *Service) Refresh(ctx context.Context, names []string) {
	s.Invalidate(names...)
	if s.catalog == nil {
		return
	}
	for _, name := range names {
		result := s.syncOne(ctx, name)
		if result.Error == "" {
			continue
		}
		if _, err := s.repo.Raw(name); err != nil && IsNotFound(err) {
			if err := s.catalog.RemoveProject(ctx, name); err != nil {
				slog.ErrorContext(ctx, "removing project from catalog", "project", name, "error", err)
			}
			continue
		}
		slog.WarnContext(ctx, "refreshing project", "project", name, "error", result.Error)
	}
}
