package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/singleflight"

	"github.com/jcdickinson/pywtf/internal/docs"
)

// ErrProjectNotFound is returned when no index file exists for a project.
var ErrProjectNotFound = errors.New("project not found")

const (
	jsonExt = ".json"
	zstdExt = ".json.zst"
)

// Repository loads project index documents from a directory and keeps the
// parsed projects in memory. Plain and zstd-compressed files are both read;
// the plain file wins when both exist.
type Repository struct {
	dir string

	mu       sync.RWMutex
	projects map[string]*docs.Project
	gen      uint64 // bumped by Invalidate and Clear
	group    singleflight.Group

	loaded func(key string) // test hook, runs between load and store
}

func New(dir string) *Repository {
	return &Repository{
		dir:      dir,
		projects: make(map[string]*docs.Project),
	}
}

func (r *Repository) Dir() string {
	return r.dir
}

// Get returns the parsed project, loading it from disk on first use.
func (r *Repository) Get(ctx context.Context, name string) (*docs.Project, error) {
	key := docs.NormalizeProjectName(name)
	if key == "" {
		return nil, fmt.Errorf("%q: %w", name, ErrProjectNotFound)
	}

	r.mu.RLock()
	p, ok := r.projects[key]
	gen := r.gen
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	// Loads started before an Invalidate or Clear neither join nor populate
	// the cache afterwards.
	ch := r.group.DoChan(fmt.Sprintf("%s#%d", key, gen), func() (interface{}, error) {
		p, err := r.load(key)
		if err != nil {
			return nil, err
		}
		if r.loaded != nil {
			r.loaded(key)
		}
		r.mu.Lock()
		if r.gen == gen {
			r.projects[key] = p
		}
		r.mu.Unlock()
		slog.Debug("loaded project", "project", p.Name, "version", p.Metadata.Version, "modules", len(p.Modules))
		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*docs.Project), nil
	}
}

func (r *Repository) load(key string) (*docs.Project, error) {
	data, err := r.Raw(key)
	if err != nil {
		return nil, err
	}
	p, err := docs.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing index for %s: %w", key, err)
	}
	return p, nil
}

// Raw returns the uncompressed JSON document for a project exactly as stored.
func (r *Repository) Raw(name string) ([]byte, error) {
	key := docs.NormalizeProjectName(name)

	data, err := os.ReadFile(filepath.Join(r.dir, key+jsonExt))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading index for %s: %w", key, err)
	}

	f, err := os.Open(filepath.Join(r.dir, key+zstdExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("opening compressed index for %s: %w", key, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer zr.Close()

	data, err = io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing index for %s: %w", key, err)
	}
	return data, nil
}

// List returns the names of every project with an index file, sorted.
func (r *Repository) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index dir: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := projectName(e.Name()); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// projectName extracts the project name from an index file name. Hidden
// files such as the index metadata are skipped.
func projectName(file string) (string, bool) {
	if strings.HasPrefix(file, ".") {
		return "", false
	}
	if name, ok := strings.CutSuffix(file, zstdExt); ok {
		return name, true
	}
	if name, ok := strings.CutSuffix(file, jsonExt); ok {
		return name, true
	}
	return "", false
}

// Save writes p to the index directory and returns the file path. The
// other encoding of the same project is removed so that it cannot shadow
// the new file.
func (r *Repository) Save(p *docs.Project, compress bool) (string, error) {
	if p == nil || p.Name == "" {
		return "", docs.ErrMissingName
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding project %s: %w", p.Name, err)
	}

	key := docs.NormalizeProjectName(p.Name)
	path, err := r.write(key, data, compress)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.projects[key] = p
	r.mu.Unlock()
	return path, nil
}

// Pack rewrites the plain index file of a project as zstd. With remove the
// plain file is deleted afterwards.
func (r *Repository) Pack(name string, remove bool) (string, error) {
	key := docs.NormalizeProjectName(name)
	src := filepath.Join(r.dir, key+jsonExt)
	data, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", key, ErrProjectNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading index for %s: %w", key, err)
	}

	dst := filepath.Join(r.dir, key+zstdExt)
	if err := writeFile(dst, data, true); err != nil {
		return "", err
	}
	if remove {
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("removing %s: %w", src, err)
		}
	}
	return dst, nil
}

func (r *Repository) write(key string, data []byte, compress bool) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("creating index dir: %w", err)
	}

	path, stale := filepath.Join(r.dir, key+jsonExt), filepath.Join(r.dir, key+zstdExt)
	if compress {
		path, stale = stale, path
	}
	if err := writeFile(path, data, compress); err != nil {
		return "", err
	}
	if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("removing stale index %s: %w", stale, err)
	}
	return path, nil
}

// writeFile writes through a temporary file in the same directory so that
// readers never observe a partial document.
func writeFile(path string, data []byte, compress bool) error {
	if compress {
		var buf bytes.Buffer
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			w.Close()
			return fmt.Errorf("writing compressed data: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("closing zstd writer: %w", err)
		}
		data = buf.Bytes()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// Invalidate drops a cached project so the next Get reads it from disk.
func (r *Repository) Invalidate(name string) {
	key := docs.NormalizeProjectName(name)
	r.mu.Lock()
	delete(r.projects, key)
	r.gen++
	r.mu.Unlock()
}

func (r *Repository) Clear() {
	r.mu.Lock()
	r.projects = make(map[string]*docs.Project)
	r.gen++
	r.mu.Unlock()
}

// Cached reports whether a project is currently held in memory.
func (r *Repository) Cached(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.projects[docs.NormalizeProjectName(name)]
	return ok
}
