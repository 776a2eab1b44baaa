package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcdickinson/pywtf/internal/docs"
)

func TestCache_Memoizes(t *testing.T) {
	t.Parallel()
	c := NewCache(docs.URLs{})
	p := alphaProject()

	first := c.Get(p)
	assert.Same(t, first, c.Get(p))
	assert.Equal(t, 1, c.Len())

	reloaded := alphaProject()
	second := c.Get(reloaded)
	assert.NotSame(t, first, second)
	assert.Same(t, second, c.Get(reloaded))
	assert.Equal(t, 1, c.Len())
}

func TestCache_NewVersionEvictsOld(t *testing.T) {
	t.Parallel()
	c := NewCache(docs.URLs{})
	c.Get(alphaProject())

	bumped := alphaProject()
	bumped.Metadata.Version = "1.1"
	ix := c.Get(bumped)
	assert.Equal(t, "1.1", ix.Version())
	assert.Equal(t, 1, c.Len())
}

func TestCache_NormalizedNames(t *testing.T) {
	t.Parallel()
	c := NewCache(docs.URLs{})
	p := alphaProject()
	p.Name = "Project_Alpha"
	first := c.Get(p)
	assert.Equal(t, "Project_Alpha", first.Project())

	c.Invalidate("project-alpha")
	assert.Zero(t, c.Len())
	assert.NotSame(t, first, c.Get(p))

	c.Invalidate("PROJECT.ALPHA")
	assert.Zero(t, c.Len())
}

func TestCache_Arena(t *testing.T) {
	t.Parallel()
	c := NewCache(docs.URLs{})
	p := alphaProject()

	ix := c.Get(p)
	arena := ix.Arena()
	require.NotNil(t, arena)
	assert.Same(t, p, arena.Project)
	assert.Same(t, arena, c.Get(p).Arena())
	assert.Nil(t, New(nil, docs.URLs{}).Arena())
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()
	c := NewCache(docs.URLs{})
	p := alphaProject()
	first := c.Get(p)

	c.Get(&docs.Project{Name: "other"})
	c.Invalidate("project-alpha")
	assert.Equal(t, 1, c.Len())
	assert.NotSame(t, first, c.Get(p))

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestCache_Options(t *testing.T) {
	t.Parallel()
	c := NewCache(docs.URLs{}, WithLimit(3))
	assert.Equal(t, 3, c.Get(alphaProject()).Limit())
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()
	c := NewCache(docs.URLs{})
	p := alphaProject()

	const n = 16
	got := make([]*Index, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = c.Get(p)
		}()
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, ix := range got[1:] {
		assert.Same(t, got[0], ix)
	}
}
