// Package site serves the tutorial reader: the page shell, its static assets,
// a JSON API and the per-page-view websocket that drives navigation. It also
// exports the tutorial as a set of static pages.
package site

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/loader"
	"github.com/ziadkadry99/pytutor/internal/logging"
	"github.com/ziadkadry99/pytutor/internal/nav"
	"github.com/ziadkadry99/pytutor/internal/render"
)

// DefaultTitle is the site title used when none is configured.
const DefaultTitle = "Python Tutorial"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Options configures an App.
type Options struct {
	Registry *chapters.Registry
	Loader   nav.Loader
	// ContentDir, when set, is served under /content/ so the raw chapter
	// files are reachable from the same origin as the reader.
	ContentDir string
	Style      string
	Title      string
	Hub        *Hub
	Logger     *slog.Logger
}

// App is the reader web application.
type App struct {
	registry   *chapters.Registry
	loader     nav.Loader
	contentDir string
	title      string
	chromaCSS  string
	tmpl       *template.Template
	hub        *Hub
	logger     *slog.Logger
}

// pageData holds the data passed to the page template.
type pageData struct {
	Title         string
	SiteTitle     string
	BasePath      string
	SidebarHTML   template.HTML
	ContentHTML   template.HTML
	BannerVisible bool
	Static        bool
}

// New creates an App. The highlight style must be a known chroma style.
func New(opts Options) (*App, error) {
	if opts.Registry == nil || opts.Loader == nil {
		return nil, fmt.Errorf("site: registry and loader are required")
	}
	opts.Logger = logging.OrDefault(opts.Logger)
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Hub == nil {
		opts.Hub = NewHub(opts.Logger)
	}

	css, err := render.StyleCSS(opts.Style)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &App{
		registry:   opts.Registry,
		loader:     opts.Loader,
		contentDir: opts.ContentDir,
		title:      opts.Title,
		chromaCSS:  css,
		tmpl:       tmpl,
		hub:        opts.Hub,
		logger:     opts.Logger,
	}, nil
}

// Hub returns the set of connected reader sessions.
func (a *App) Hub() *Hub { return a.hub }

// RegisterRoutes mounts the reader routes onto r.
func (a *App) RegisterRoutes(r chi.Router) {
	// The reader socket lives for the whole page view, so it stays outside
	// the request timeout.
	r.Get("/ws/reader", a.handleReader)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/", a.serveIndex)
		r.Get("/static/style.css", serveAsset("text/css; charset=utf-8", cssContent))
		r.Get("/static/script.js", serveAsset("application/javascript; charset=utf-8", jsContent))
		r.Get("/static/chroma.css", serveAsset("text/css; charset=utf-8", a.chromaCSS))
		r.Get("/api/chapters", a.handleChapters)
		r.Get("/api/chapters/{id}", a.handleChapter)

		if a.contentDir != "" {
			r.Handle("/content/*", http.StripPrefix("/content/", http.FileServer(http.Dir(a.contentDir))))
		}
	})
}

func (a *App) serveIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		SiteTitle:   a.title,
		BasePath:    "/static/",
		SidebarHTML: template.HTML(ChapterList(a.registry, "", loader.FragmentLinks)),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.tmpl.Execute(w, data); err != nil {
		a.logger.Error("rendering reader page", "error", err)
	}
}

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}

func (a *App) handleChapters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.registry.All())
}

func (a *App) handleChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := chapters.ParseFragment(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown chapter"})
		return
	}
	ch, ok := a.registry.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown chapter"})
		return
	}

	page, err := a.loader.Load(r.Context(), ch)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *App) handleReader(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("reader websocket upgrade", "error", err)
		return
	}

	s := newSession(conn, a.registry, a.loader, a.logger)
	a.hub.add(s)
	defer s.close()
	defer a.hub.remove(s)

	s.run()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
