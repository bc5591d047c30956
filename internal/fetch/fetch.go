// Package fetch retrieves chapter documents and substitutes displayable
// placeholder text when retrieval fails.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// PlaceholderMarker opens every placeholder document.
const PlaceholderMarker = "Failed to load content"

// maxDocumentSize caps how much of a single chapter is read.
const maxDocumentSize = 4 << 20

// Source retrieves raw chapter documents by filename.
type Source interface {
	Fetch(ctx context.Context, filename string) ([]byte, error)
}

// StatusError is returned by HTTPSource for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPSource fetches chapters relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client uses a client with a 30s timeout.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing content url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("content url %q must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{base: u, client: client}, nil
}

// Fetch performs a GET for filename relative to the base URL.
func (s *HTTPSource) Fetch(ctx context.Context, filename string) ([]byte, error) {
	target := s.base.ResolveReference(&url.URL{Path: filename})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: target.String(), StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	return data, nil
}

// DirSource reads chapters from a directory.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource serves chapters from dir on the local filesystem.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir)}
}

// NewFSSource serves chapters from an arbitrary fs.FS.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

// Fetch reads filename from the directory.
func (s *DirSource) Fetch(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(filename) {
		return nil, &fs.PathError{Op: "open", Path: filename, Err: fs.ErrInvalid}
	}
	return fs.ReadFile(s.fsys, filename)
}

// Result is the outcome of a fetch: either the document text or a placeholder.
type Result struct {
	Text   string
	Failed bool
}

// Fetcher wraps a Source and turns retrieval failures into placeholder text.
type Fetcher struct {
	src    Source
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. A nil logger uses slog.Default().
func NewFetcher(src Source, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{src: src, logger: logger}
}

// Fetch retrieves filename. Transport and status failures yield a placeholder
// Result with Failed set; the returned error is non-nil only when ctx is done.
func (f *Fetcher) Fetch(ctx context.Context, filename string) (Result, error) {
	data, err := f.src.Fetch(ctx, filename)
	if err == nil {
		return Result{Text: string(data)}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}

	f.logger.Warn("chapter fetch failed", "filename", filename, "error", err)
	return Result{Text: Placeholder(filename, err), Failed: true}, nil
}

// Placeholder builds the Markdown shown in place of a chapter that could not be loaded.
func Placeholder(filename string, cause error) string {
	reason := "unknown error"
	var se *StatusError
	switch {
	case errors.As(cause, &se):
		reason = fmt.Sprintf("the server answered %d %s", se.StatusCode, http.StatusText(se.StatusCode))
	case errors.Is(cause, fs.ErrNotExist):
		reason = "the file does not exist"
	case cause != nil:
		reason = cause.Error()
	}

	var b strings.Builder
	b.WriteString("# " + PlaceholderMarker + "\n\n")
	fmt.Fprintf(&b, "The chapter `%s` could not be loaded: %s.\n\n", filename, reason)
	b.WriteString("Make sure the tutorial is served over HTTP (for example with `pytutor serve`) ")
	b.WriteString("and that the chapter file is present, then try again.\n")
	return b.String()
}

// IsPlaceholder reports whether text is placeholder content.
func IsPlaceholder(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, "# \t\r\n"), PlaceholderMarker)
}
