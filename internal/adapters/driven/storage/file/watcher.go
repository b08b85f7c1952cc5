package file

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/operand-hq/crewd/internal/logger"
)

// Watcher monitors the corpus file and notifies when it changes on disk,
// typically from a hand edit. The parent directory is watched rather than
// the file itself because editors replace files via rename.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
}

// NewWatcher creates a watcher for the corpus file at path. onChange is
// invoked from the watch goroutine on every create, write or rename of
// the file.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  w,
		path:     filepath.Clean(path),
		onChange: onChange,
	}, nil
}

// Start begins watching. It returns once the watch is registered; events
// are handled until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("Corpus file changed on disk: %s", event.Name)
				w.onChange()
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Corpus watcher error: %v", err)
			}
		}
	}()

	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
