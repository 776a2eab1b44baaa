package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexHost(t *testing.T) *httptest.Server {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	packed := enc.EncodeAll([]byte(strings.Replace(alphaJSON, "project-alpha", "project-gamma", 1)), nil)
	require.NoError(t, enc.Close())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /_index/project-alpha.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(alphaJSON))
	})
	mux.HandleFunc("GET /_index/project-gamma.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write(packed)
	})
	mux.HandleFunc("GET /_index/impostor.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(alphaJSON))
	})
	mux.HandleFunc("GET /_index/broken.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRepository_Fetch(t *testing.T) {
	t.Parallel()
	ts := indexHost(t)
	dir := t.TempDir()
	repo := New(dir)
	ctx := context.Background()

	p, path, err := repo.Fetch(ctx, ts.URL+"/", "Project_Alpha", false)
	require.NoError(t, err)
	assert.Equal(t, "project-alpha", p.Name)
	assert.Equal(t, filepath.Join(dir, "project-alpha.json"), path)
	assert.True(t, repo.Cached("project-alpha"))

	p, path, err = repo.Fetch(ctx, ts.URL, "project-gamma", true)
	require.NoError(t, err)
	assert.Equal(t, "project-gamma", p.Name)
	assert.Equal(t, filepath.Join(dir, "project-gamma.json.zst"), path)

	names, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"project-alpha", "project-gamma"}, names)
}

func TestRepository_FetchErrors(t *testing.T) {
	t.Parallel()
	ts := indexHost(t)
	repo := New(t.TempDir())
	ctx := context.Background()

	_, _, err := repo.Fetch(ctx, ts.URL, "missing", false)
	require.ErrorIs(t, err, ErrProjectNotFound)

	_, _, err = repo.Fetch(ctx, ts.URL, "impostor", false)
	require.ErrorContains(t, err, "names project")

	_, _, err = repo.Fetch(ctx, ts.URL, "broken", false)
	require.ErrorContains(t, err, "returned 500")

	_, _, err = repo.Fetch(ctx, ts.URL, "", false)
	require.ErrorIs(t, err, ErrProjectNotFound)

	names, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}
