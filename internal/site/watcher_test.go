package site

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/pytutor/internal/logging"
)

type recordingNotifier struct {
	mu    sync.Mutex
	files []string
	ch    chan string
}

func (n *recordingNotifier) ChapterChanged(filename string) int {
	n.mu.Lock()
	n.files = append(n.files, filename)
	n.mu.Unlock()
	n.ch <- filename
	return 1
}

func TestWatcherReportsChapterChanges(t *testing.T) {
	dir := t.TempDir()
	chapter := filepath.Join(dir, "tutorial-05-functions.md")
	require.NoError(t, os.WriteFile(chapter, []byte("# Functions\n"), 0o644))

	n := &recordingNotifier{ch: make(chan string, 8)}
	w, err := NewWatcher(dir, "", n, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(chapter, []byte("# Functions\n\nMore.\n"), 0o644))

	select {
	case got := <-n.ch:
		assert.Equal(t, "tutorial-05-functions.md", got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), "", &recordingNotifier{}, logging.Discard())
	assert.Error(t, err)
}
