package search

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jcdickinson/pywtf/internal/docs"
)

// Cache memoizes built indexes per normalized project name. An entry is
// reused only for the project value it was built from, so a reloaded or
// re-versioned project replaces the previous index.
type Cache struct {
	urls URLBuilder
	opts []Option

	mu      sync.RWMutex
	indexes map[string]*Index
	group   singleflight.Group
}

func NewCache(urls URLBuilder, opts ...Option) *Cache {
	return &Cache{
		urls:    urls,
		opts:    opts,
		indexes: make(map[string]*Index),
	}
}

func (c *Cache) lookup(key string, p *docs.Project) (*Index, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ix, ok := c.indexes[key]
	if !ok || ix.source != p {
		return nil, false
	}
	return ix, true
}

// Get returns the index for p, building it on first use. Concurrent callers
// asking for the same project share a single build.
func (c *Cache) Get(p *docs.Project) *Index {
	key := docs.NormalizeProjectName(p.Name)
	if ix, ok := c.lookup(key, p); ok {
		return ix
	}

	flight := fmt.Sprintf("%s@%s/%p", key, p.Metadata.Version, p)
	v, _, _ := c.group.Do(flight, func() (interface{}, error) {
		if ix, ok := c.lookup(key, p); ok {
			return ix, nil
		}

		ix := New(p, c.urls, c.opts...)
		slog.Debug("built search index", "project", key, "version", ix.version, "descriptors", len(ix.descriptors))

		c.mu.Lock()
		if old, ok := c.indexes[key]; ok && old.version != ix.version {
			slog.Debug("evicted search index", "project", key, "version", old.version)
		}
		c.indexes[key] = ix
		c.mu.Unlock()
		return ix, nil
	})
	return v.(*Index)
}

// Invalidate drops the cached index of the named project.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.indexes, docs.NormalizeProjectName(name))
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.indexes = make(map[string]*Index)
	c.mu.Unlock()
}

// Len reports how many indexes are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.indexes)
}
