// Package watch turns file system events on a page file into change
// notifications for the scan lifecycle.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// File watches path and sends on the returned channel whenever the file is
// written or (re)created. The parent directory is watched rather than the
// file itself so that editors and tools replacing the file by rename keep
// being followed. Sends never block: a notification that finds one already
// queued is dropped, since one pending notification covers the burst.
//
// The channel is closed when ctx is done or the watcher fails.
func File(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !isContentChange(ev) {
					continue
				}
				log.Debug().Str("file", abs).Str("op", ev.Op.String()).Msg("page changed")
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("file", abs).Msg("watch error")
			}
		}
	}()
	return out, nil
}

// isContentChange keeps events that can add content to the page. Removals,
// renames away and permission changes are ignored.
func isContentChange(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
