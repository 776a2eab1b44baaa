package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for index writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watch invalidates cached projects whose index files change and then calls
// onChange with the affected project names. Events are batched over the
// debounce window. It blocks until ctx is cancelled or the watcher fails.
func (r *Repository) Watch(ctx context.Context, debounce time.Duration, onChange func(projects []string)) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("creating index dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watching %s: %w", r.dir, err)
	}
	slog.Info("watching index dir", "dir", r.dir)

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name, ok := projectName(filepath.Base(event.Name))
			if !ok {
				continue
			}
			if len(pending) == 0 {
				timer.Reset(debounce)
			}
			pending[name] = true
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				r.Invalidate(name)
				changed = append(changed, name)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			slog.Info("index files changed", "projects", changed)
			if onChange != nil {
				onChange(changed)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching index dir: %w", watchErr)
		}
	}
}
