package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/jcdickinson/pywtf/internal/docs"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Fetch downloads a project index from another index host (a pywtf server
// or a static site serving _index/) and saves it in the repository.
func (r *Repository) Fetch(ctx context.Context, baseURL, name string, compress bool) (*docs.Project, string, error) {
	key := docs.NormalizeProjectName(name)
	if key == "" {
		return nil, "", fmt.Errorf("%q: %w", name, ErrProjectNotFound)
	}

	data, err := fetchIndex(ctx, baseURL, key)
	if err != nil {
		return nil, "", err
	}
	p, err := docs.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing fetched index for %s: %w", key, err)
	}
	if docs.NormalizeProjectName(p.Name) != key {
		return nil, "", fmt.Errorf("fetched index for %s names project %q", key, p.Name)
	}

	path, err := r.Save(p, compress)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

func fetchIndex(ctx context.Context, baseURL, key string) ([]byte, error) {
	u := strings.TrimRight(baseURL, "/") + docs.ProjectJSONPath(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "pywtf/0.1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", key, ErrProjectNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s returned %d: %s", u, resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}

	// some hosts serve the packed file as is
	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err = io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", u, err)
	}
	return data, nil
}
