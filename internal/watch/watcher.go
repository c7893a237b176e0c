// Package watch observes a directory of text files and reports
// changes, so the knowledge base can follow edits without re-running
// ingestion by hand.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/curio-labs/curio-cli/internal/logger"
)

// ChangeType classifies a file change.
type ChangeType int

// Change types.
const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeRemoved
)

// String returns a readable change type.
func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is one observed file change.
type Change struct {
	Type ChangeType
	Path string
}

// textExtensions are the file types worth ingesting.
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
	".rst":      true,
	".html":     true,
	".htm":      true,
}

// Watcher observes one directory (non-recursive) for text file changes.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
}

// New creates a watcher for dir. The directory must exist.
func New(dir string) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch dir: %s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{dir: dir, watcher: fw}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Changes translates filesystem events into Change values until ctx is
// cancelled or the watcher is closed. The returned channel is closed
// when watching stops.
func (w *Watcher) Changes(ctx context.Context) <-chan Change {
	out := make(chan Change)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				change := w.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case out <- *change:
				case <-ctx.Done():
					return
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return out
}

// handleFsEvent maps one fsnotify event to a Change, or nil for events
// that should be ignored (directories, hidden files, non-text files).
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return nil
	}
	if !textExtensions[strings.ToLower(filepath.Ext(name))] {
		return nil
	}

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		return &Change{Type: ChangeRemoved, Path: event.Name}

	case event.Op.Has(fsnotify.Create):
		if isDir(event.Name) {
			return nil
		}
		return &Change{Type: ChangeCreated, Path: event.Name}

	case event.Op.Has(fsnotify.Write):
		if isDir(event.Name) {
			return nil
		}
		return &Change{Type: ChangeUpdated, Path: event.Name}

	default:
		// Chmod-only events carry no content change.
		return nil
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListTextFiles returns the ingestible files currently in dir, sorted
// by name.
func ListTextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !textExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
