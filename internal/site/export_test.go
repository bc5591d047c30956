package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/logging"
)

func TestExport(t *testing.T) {
	reg := chapters.Default()
	out := t.TempDir()
	e := &Exporter{
		Registry:  reg,
		Loader:    newTestLoader(t, reg, PageFile),
		OutputDir: out,
		Logger:    logging.Discard(),
	}

	res, err := e.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reg.Len(), res.Pages)
	assert.Equal(t, []int{3}, res.Failed)

	for _, name := range []string{"index.html", "style.css", "chroma.css", "script.js", "chapter-1.html", "chapter-13.html"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(out, "chapter-5.html"))
	require.NoError(t, err)
	page := string(data)
	assert.Equal(t, 1, strings.Count(page, `class="chapter active"`))
	assert.Contains(t, page, `<li class="chapter active" data-filename="tutorial-05-functions.md"`)
	assert.Contains(t, page, "<title>Functions · Python Tutorial</title>")
	assert.Contains(t, page, "data-static")
	assert.Contains(t, page, `id="load-banner" role="alert" hidden`)

	failed, err := os.ReadFile(filepath.Join(out, "chapter-3.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(failed), `role="alert" hidden`, "banner should be visible on a failed chapter")

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[1,2,3,4,5,6,7,8,9,10,11,12,13]")
	assert.Contains(t, string(index), `href="chapter-1.html"`)
}

func TestExportCancelled(t *testing.T) {
	reg := chapters.Default()
	e := &Exporter{
		Registry:  reg,
		Loader:    newTestLoader(t, reg, PageFile),
		OutputDir: t.TempDir(),
		Logger:    logging.Discard(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Export(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
