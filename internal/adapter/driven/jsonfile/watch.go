package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// watchDebounce drops repeat events for the same document arriving within
// this window. An atomic rewrite produces several.
const watchDebounce = 100 * time.Millisecond

// Watch reports changes to the document files, including edits made by hand
// or by another process. The directory is watched rather than the files so
// that atomic renames are seen. Watch blocks until ctx is canceled.
func (s *Store) Watch(ctx context.Context, onChange func(document string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	last := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			name, ok := documentName(event.Name)
			if !ok {
				continue
			}

			now := time.Now()
			if now.Sub(last[name]) < watchDebounce {
				continue
			}
			last[name] = now

			slog.Debug("document changed", "document", name, "op", event.Op.String())
			onChange(name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("document watcher error", "error", err)
		}
	}
}

// documentName maps a watched path to its document name.
func documentName(path string) (string, bool) {
	base := filepath.Base(path)
	name, ok := strings.CutSuffix(base, ".json")
	if !ok {
		return "", false
	}
	switch name {
	case driven.DocumentServices, driven.DocumentCategories:
		return name, true
	default:
		return "", false
	}
}
