package site

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/fetch"
	"github.com/ziadkadry99/pytutor/internal/loader"
	"github.com/ziadkadry99/pytutor/internal/logging"
	"github.com/ziadkadry99/pytutor/internal/render"
)

// fixtureFS holds a document for every default chapter except id 3.
func fixtureFS(reg *chapters.Registry) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, ch := range reg.All() {
		if ch.ID == 3 {
			continue
		}
		body := fmt.Sprintf("# %s\n\nChapter %d.\n\n```python\nprint(%d)\n```\n", ch.Title, ch.ID, ch.ID)
		fsys[ch.Filename] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func newTestLoader(t *testing.T, reg *chapters.Registry, links loader.LinkFormat) *loader.Loader {
	t.Helper()
	h, err := render.NewHighlighter(render.DefaultStyle, logging.Discard())
	require.NoError(t, err)
	f := fetch.NewFetcher(fetch.NewFSSource(fixtureFS(reg)), logging.Discard())
	return loader.New(reg, f, render.NewRenderer(), h,
		loader.WithLogger(logging.Discard()),
		loader.WithLinkFormat(links),
	)
}

func setupApp(t *testing.T, contentDir string) (*App, chi.Router) {
	t.Helper()
	reg := chapters.Default()
	app, err := New(Options{
		Registry:   reg,
		Loader:     newTestLoader(t, reg, loader.FragmentLinks),
		ContentDir: contentDir,
		Logger:     logging.Discard(),
	})
	require.NoError(t, err)
	r := chi.NewRouter()
	app.RegisterRoutes(r)
	return app, r
}

func TestNewRejectsUnknownStyle(t *testing.T) {
	reg := chapters.Default()
	_, err := New(Options{
		Registry: reg,
		Loader:   newTestLoader(t, reg, loader.FragmentLinks),
		Style:    "no-such-style",
	})
	assert.Error(t, err)
}

func TestServeIndex(t *testing.T) {
	_, r := setupApp(t, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, DefaultTitle)
	assert.Contains(t, body, `data-filename="tutorial-01-introduction-to-python.md"`)
	assert.Contains(t, body, `href="#5"`)
	assert.Contains(t, body, `id="load-banner" role="alert" hidden`)
	assert.NotContains(t, body, "chapter active", "no entry is active before the first load")
}

func TestStaticAssets(t *testing.T) {
	_, r := setupApp(t, "")

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/static/style.css", "text/css", "--accent"},
		{"/static/script.js", "application/javascript", "/ws/reader"},
		{"/static/chroma.css", "text/css", ".chroma"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestAPIChapters(t *testing.T) {
	_, r := setupApp(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/chapters", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []chapters.Chapter
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, chapters.Default().All(), got)
}

func TestAPIChapter(t *testing.T) {
	_, r := setupApp(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/chapters/5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var page loader.Page
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Equal(t, 5, page.Chapter.ID)
	assert.Equal(t, "Functions", page.Title)
	assert.False(t, page.Failed)
	assert.Contains(t, page.HTML, `class="highlight"`)
}

func TestAPIChapterUnknown(t *testing.T) {
	_, r := setupApp(t, "")

	for _, path := range []string{"/api/chapters/999", "/api/chapters/intro"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestContentFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tutorial-01-introduction-to-python.md"), []byte("# Introduction to Python\n"), 0o644))
	_, r := setupApp(t, dir)

	req := httptest.NewRequest(http.MethodGet, "/content/tutorial-01-introduction-to-python.md", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# Introduction to Python\n", w.Body.String())
}

// readerConn is a test client for the reader websocket.
type readerConn struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialReader(t *testing.T, r http.Handler) (*readerConn, func()) {
	t.Helper()
	server := httptest.NewServer(r)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/reader"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	return &readerConn{t: t, conn: conn}, func() {
		conn.Close()
		server.Close()
	}
}

func (c *readerConn) send(msg clientMessage) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *readerConn) read() serverMessage {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg serverMessage
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return msg
}

// readCommit reads the four updates a completed navigation sends.
func (c *readerConn) readCommit() (content, active, fragment, banner serverMessage) {
	c.t.Helper()
	content, active, fragment, banner = c.read(), c.read(), c.read(), c.read()
	require.Equal(c.t, "content", content.Type)
	require.Equal(c.t, "active", active.Type)
	require.Equal(c.t, "fragment", fragment.Type)
	require.Equal(c.t, "banner", banner.Type)
	return
}

func TestReaderStart(t *testing.T) {
	_, r := setupApp(t, "")
	c, done := dialReader(t, r)
	defer done()

	c.send(clientMessage{Type: "start"})
	content, active, fragment, banner := c.readCommit()

	assert.Equal(t, 1, content.ID)
	assert.Equal(t, "Introduction to Python", content.Title)
	assert.Equal(t, "tutorial-01-introduction-to-python.md", active.Filename)
	assert.Equal(t, "1", fragment.Fragment)
	assert.False(t, banner.Visible)
}

func TestReaderStartUnknownFragmentFallsBack(t *testing.T) {
	_, r := setupApp(t, "")
	c, done := dialReader(t, r)
	defer done()

	c.send(clientMessage{Type: "start", Fragment: "999"})
	content, _, fragment, _ := c.readCommit()
	assert.Equal(t, 1, content.ID)
	assert.Equal(t, "1", fragment.Fragment)
}

func TestReaderSelectAndNavigate(t *testing.T) {
	_, r := setupApp(t, "")
	c, done := dialReader(t, r)
	defer done()

	c.send(clientMessage{Type: "start", Fragment: "2"})
	content, _, _, _ := c.readCommit()
	require.Equal(t, 2, content.ID)

	c.send(clientMessage{Type: "select", ID: 5})
	content, active, fragment, _ := c.readCommit()
	assert.Equal(t, 5, content.ID)
	assert.Equal(t, "Functions", content.Title)
	assert.Equal(t, "tutorial-05-functions.md", active.Filename)
	assert.Equal(t, "5", fragment.Fragment)

	c.send(clientMessage{Type: "navigate", Fragment: "4"})
	content, _, _, _ = c.readCommit()
	assert.Equal(t, 4, content.ID)
}

func TestReaderUnknownSelect(t *testing.T) {
	_, r := setupApp(t, "")
	c, done := dialReader(t, r)
	defer done()

	c.send(clientMessage{Type: "select", ID: 999})
	msg := c.read()
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Message, "unknown chapter")
}

func TestReaderFailedChapterShowsBanner(t *testing.T) {
	_, r := setupApp(t, "")
	c, done := dialReader(t, r)
	defer done()

	c.send(clientMessage{Type: "start", Fragment: "3"})
	content, active, _, banner := c.readCommit()

	assert.True(t, content.Failed)
	assert.Equal(t, fetch.PlaceholderMarker, content.Title)
	assert.Equal(t, "tutorial-03-operators-and-expressions.md", active.Filename)
	assert.True(t, banner.Visible)

	c.send(clientMessage{Type: "dismiss"})
	msg := c.read()
	assert.Equal(t, "banner", msg.Type)
	assert.False(t, msg.Visible)
}

func TestReaderUnknownMessage(t *testing.T) {
	_, r := setupApp(t, "")
	c, done := dialReader(t, r)
	defer done()

	c.send(clientMessage{Type: "bogus"})
	msg := c.read()
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Message, "bogus")
}

func TestHubReloadsActiveChapter(t *testing.T) {
	app, r := setupApp(t, "")
	c, done := dialReader(t, r)
	defer done()

	c.send(clientMessage{Type: "start", Fragment: "5"})
	c.readCommit()

	require.Equal(t, 1, app.Hub().Len())
	assert.Equal(t, 0, app.Hub().ChapterChanged("tutorial-01-introduction-to-python.md"))
	assert.Equal(t, 1, app.Hub().ChapterChanged("tutorial-05-functions.md"))

	content, _, _, _ := c.readCommit()
	assert.Equal(t, 5, content.ID)
}

func TestReaderLastSelectWins(t *testing.T) {
	_, r := setupApp(t, "")

	for i := 0; i < 20; i++ {
		c, done := dialReader(t, r)

		c.send(clientMessage{Type: "start", Fragment: "1"})
		c.send(clientMessage{Type: "select", ID: 2})
		c.send(clientMessage{Type: "select", ID: 5})

		last := 0
		for {
			msg := c.read()
			if msg.Type == "content" {
				last = msg.ID
			}
			if msg.Type == "fragment" && msg.Fragment == "5" {
				break
			}
		}
		assert.Equal(t, 5, last, "run %d", i)
		assert.Equal(t, "banner", c.read().Type)

		require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
		var extra serverMessage
		assert.Error(t, c.conn.ReadJSON(&extra), "run %d: no update may follow the last selection, got %+v", i, extra)

		done()
	}
}

func TestBannerMessageCarriesVisible(t *testing.T) {
	data, err := json.Marshal(serverMessage{Type: "banner", Visible: false})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"visible":false`)
}
