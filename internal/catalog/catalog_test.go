package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcdickinson/pywtf/internal/docs"
	"github.com/jcdickinson/pywtf/internal/search"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func project(name, version string, fns ...string) *docs.Project {
	m := docs.Module{Name: name}
	for _, fn := range fns {
		m.Functions = append(m.Functions, docs.Function{Name: name + "." + fn})
	}
	return &docs.Project{
		Name:     name,
		Metadata: docs.ProjectMetadata{Version: version, Summary: name + " summary"},
		Modules:  []docs.Module{m},
	}
}

func upsert(t *testing.T, c *Catalog, p *docs.Project) *Project {
	t.Helper()
	got, err := c.UpsertProject(context.Background(), p, search.Build(p, docs.URLs{}))
	require.NoError(t, err)
	require.NotNil(t, got)
	return got
}

func TestUpsertProject(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	ctx := context.Background()

	first := upsert(t, c, project("alpha", "1.0", "bar", "unzip"))
	assert.Equal(t, "alpha", first.Name)
	assert.Equal(t, "1.0", first.Version)
	assert.Equal(t, "alpha summary", first.Summary)
	assert.Equal(t, 1, first.Modules)
	assert.Equal(t, 3, first.Symbols)

	second := upsert(t, c, project("alpha", "1.1", "bar"))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "1.1", second.Version)
	assert.Equal(t, 2, second.Symbols)

	ds, err := c.Descriptors(ctx, "", nil)
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, search.KindModule, ds[0].Kind)
	assert.Equal(t, "alpha.bar", ds[1].FQName)
	assert.Equal(t, "/alpha/alpha/bar", ds[1].URL)
	assert.Equal(t, "alpha", ds[1].Project)
}

func TestGetProject_Missing(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	p, err := c.GetProject(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestListAndRemove(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	ctx := context.Background()
	upsert(t, c, project("zeta", "1", "z"))
	upsert(t, c, project("alpha", "1", "a"))

	list, err := c.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)

	require.NoError(t, c.RemoveProject(ctx, "alpha"))
	require.NoError(t, c.RemoveProject(ctx, "alpha"))

	list, err = c.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	ds, err := c.Descriptors(ctx, "", []string{"alpha"})
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestProjectNamesAreNormalized(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	ctx := context.Background()

	first := upsert(t, c, project("Typing_Extensions", "4.0", "final"))
	assert.Equal(t, "typing-extensions", first.Key)
	assert.Equal(t, "Typing_Extensions", first.Name)

	second := upsert(t, c, project("typing.extensions", "4.1", "final"))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "typing.extensions", second.Name)

	got, err := c.GetProject(ctx, "TYPING-EXTENSIONS")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "4.1", got.Version)

	ds, err := c.Descriptors(ctx, "", []string{"typing_extensions"})
	require.NoError(t, err)
	assert.Len(t, ds, 2)

	require.NoError(t, c.RemoveProject(ctx, "typing-extensions"))
	list, err := c.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	ds, err = c.Descriptors(ctx, "", nil)
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestOpen_DropsUnkeyedSchema(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "catalog.db")
	c, err := Open(path)
	require.NoError(t, err)
	for _, q := range []string{
		`DROP TABLE symbols`,
		`DROP TABLE projects`,
		`CREATE TABLE projects (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`,
		`INSERT INTO projects VALUES (1, 'Old_Name')`,
	} {
		_, err := c.conn.Exec(q)
		require.NoError(t, err, q)
	}
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	list, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	upsert(t, c, project("Old_Name", "1", "f"))
}

func TestSearch_AcrossProjects(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	ctx := context.Background()
	upsert(t, c, project("alpha", "1", "bar", "crowbar"))
	upsert(t, c, project("beta", "1", "baker_row", "quux"))

	res, err := c.Search(ctx, "bar", nil, 0)
	require.NoError(t, err)
	var names []string
	for _, r := range res {
		names = append(names, r.Project+":"+r.Name)
	}
	assert.Equal(t, []string{"alpha:bar", "alpha:crowbar", "beta:baker_row"}, names)

	res, err = c.Search(ctx, "bar", []string{"beta"}, 0)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "baker_row", res[0].Name)

	res, err = c.Search(ctx, "  ", nil, 0)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	res, err = c.Search(ctx, "bar", nil, 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestSubsequencePattern(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"bar", "%b%a%r%"},
		{"a_b", `%a%\_%b%`},
		{"100%", `%1%0%0%\%%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, subsequencePattern(tt.in), "input %q", tt.in)
	}
}
