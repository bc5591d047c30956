// Package loader runs the chapter pipeline: fetch, repair fences, render,
// highlight and rewrite inter-chapter links.
package loader

import (
	"context"
	"html"
	"log/slog"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/fence"
	"github.com/ziadkadry99/pytutor/internal/fetch"
	"github.com/ziadkadry99/pytutor/internal/render"
)

// Page is a fully processed chapter ready for display.
type Page struct {
	Chapter chapters.Chapter `json:"chapter"`
	// Title is the document heading, or the registry title when there is none.
	Title string `json:"title"`
	// Heading is the document's first h1 as written, empty when it has none.
	Heading string `json:"heading"`
	HTML    string `json:"html"`
	Failed  bool   `json:"failed"`
}

// LinkFormat maps a chapter to the href used for links pointing at it.
type LinkFormat func(ch chapters.Chapter) string

// FragmentLinks links chapters by address fragment ("#5").
func FragmentLinks(ch chapters.Chapter) string { return "#" + ch.Fragment() }

// Loader turns a chapter into a Page.
type Loader struct {
	registry    *chapters.Registry
	fetcher     *fetch.Fetcher
	renderer    *render.Renderer
	highlighter *render.Highlighter
	links       LinkFormat
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLinkFormat sets how links to other chapters' .md files are rewritten.
func WithLinkFormat(f LinkFormat) Option {
	return func(l *Loader) { l.links = f }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a Loader.
func New(registry *chapters.Registry, fetcher *fetch.Fetcher, renderer *render.Renderer, highlighter *render.Highlighter, opts ...Option) *Loader {
	l := &Loader{
		registry:    registry,
		fetcher:     fetcher,
		renderer:    renderer,
		highlighter: highlighter,
		links:       FragmentLinks,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the chapter Markdown after fence repair, or the placeholder
// text when it could not be fetched.
func (l *Loader) Source(ctx context.Context, ch chapters.Chapter) (fetch.Result, error) {
	res, err := l.fetcher.Fetch(ctx, ch.Filename)
	if err != nil {
		return fetch.Result{}, err
	}
	res.Text = fence.Safe(res.Text, l.logger.With("filename", ch.Filename))
	return res, nil
}

// Load runs the full pipeline for ch. Failures inside the pipeline degrade the
// page instead of failing it; the only error returned is ctx's.
func (l *Loader) Load(ctx context.Context, ch chapters.Chapter) (*Page, error) {
	res, err := l.Source(ctx, ch)
	if err != nil {
		return nil, err
	}

	page := &Page{Chapter: ch, Title: ch.Title, Failed: res.Failed}

	rendered, err := l.renderer.Render([]byte(res.Text))
	if err != nil {
		l.logger.Error("render failed, showing raw text", "filename", ch.Filename, "error", err)
		page.HTML = "<pre>" + html.EscapeString(res.Text) + "</pre>"
		return page, ctx.Err()
	}

	doc, err := render.ParseDocument(rendered)
	if err != nil {
		l.logger.Error("post-processing failed, showing unhighlighted html", "filename", ch.Filename, "error", err)
		page.HTML = rendered
		return page, ctx.Err()
	}

	if l.highlighter != nil {
		rep := l.highlighter.Apply(doc)
		if rep.Failed > 0 {
			l.logger.Info("some code blocks were not highlighted", "filename", ch.Filename, "failed", rep.Failed, "highlighted", rep.Highlighted)
		}
	}

	if l.links != nil && l.registry != nil {
		doc.RewriteLinks(func(filename string) (string, bool) {
			target, ok := l.registry.ByFilename(filename)
			if !ok {
				return "", false
			}
			return l.links(target), true
		})
	}

	page.Heading = doc.Title()
	if page.Heading != "" {
		page.Title = page.Heading
	}

	out, err := doc.HTML()
	if err != nil {
		l.logger.Error("serialising page failed", "filename", ch.Filename, "error", err)
		out = rendered
	}
	page.HTML = out

	return page, ctx.Err()
}
