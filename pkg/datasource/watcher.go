package datasource

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// Watcher re-fetches from a file-backed provider whenever the underlying
// file is rewritten and hands the fresh table to a callback.
type Watcher struct {
	path     string
	provider Provider
	watcher  *fsnotify.Watcher
	onUpdate func(registrations.Table)
	onError  func(error)
}

// NewWatcher creates a watcher for path backed by the given provider.
// onUpdate receives each freshly fetched table; onError is optional.
func NewWatcher(path string, provider Provider, onUpdate func(registrations.Table), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory rather than the file: editors and atomic writers
	// replace files, which drops a direct file watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{
		path:     path,
		provider: provider,
		watcher:  fw,
		onUpdate: onUpdate,
		onError:  onError,
	}, nil
}

// Run processes file events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			table, err := w.provider.Fetch(ctx)
			if err != nil {
				w.reportError(err)
				continue
			}
			w.onUpdate(table)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
