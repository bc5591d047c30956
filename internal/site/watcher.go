package site

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/logging"
)

// ChangeNotifier is told when a chapter file changes on disk.
type ChangeNotifier interface {
	ChapterChanged(filename string) int
}

// Watcher watches the content directory and reports changed chapter files.
// Bursts of events for one file (editors often write, chmod and rename in
// quick succession) are collapsed into a single notification.
type Watcher struct {
	fs       *fsnotify.Watcher
	notifier ChangeNotifier
	pattern  string
	delay    time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher starts watching dir. Files whose base name matches pattern
// (chapters.DefaultPattern when empty) are reported to n.
func NewWatcher(dir, pattern string, n ChangeNotifier, logger *slog.Logger) (*Watcher, error) {
	if pattern == "" {
		pattern = chapters.DefaultPattern
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		fs:       fw,
		notifier: n,
		pattern:  pattern,
		delay:    100 * time.Millisecond,
		logger:   logging.OrDefault(logger),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Run dispatches file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.changed(filepath.Base(event.Name))
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) changed(name string) {
	if ok, _ := doublestar.Match(w.pattern, name); !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[name]; ok {
		t.Reset(w.delay)
		return
	}
	w.pending[name] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()
		w.logger.Debug("chapter file changed", "filename", name)
		w.notifier.ChapterChanged(name)
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for name, t := range w.pending {
		t.Stop()
		delete(w.pending, name)
	}
	w.mu.Unlock()
	w.fs.Close()
}
