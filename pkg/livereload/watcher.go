package livereload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nzambello/ploneview/pkg/log"
)

// Watcher calls a function whenever a file changes. Editors that save by
// renaming a new file over the old one are handled.
type Watcher struct {
	path     string
	onChange func(path string)
	debounce time.Duration
	logger   *log.Logger
}

// NewWatcher returns a watcher for path.
func NewWatcher(path string, onChange func(path string)) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 100 * time.Millisecond,
		logger:   log.ForService("livereload"),
	}
}

// Run watches until ctx is done. The parent directory is watched so the
// file may be created or replaced after Run starts.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			w.logger.Warnf("failed to close file watcher: %v", err)
		}
	}()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Infof("Watching %s for changes", abs)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
				continue
			}
			w.logger.Debugf("%s changed (event: %s)", event.Name, event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if _, err := os.Stat(abs); os.IsNotExist(err) {
				w.logger.Warnf("%s was removed and not replaced, skipping reload", abs)
				continue
			}
			w.onChange(abs)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnf("file watcher error: %v", err)
		}
	}
}
