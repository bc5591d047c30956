package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

var errUnknownLanguage = errors.New("unknown language")

// LookupStyle returns the named chroma style.
func LookupStyle(name string) (*chroma.Style, bool) {
	if s, ok := styles.Registry[name]; ok {
		return s, true
	}
	s, ok := styles.Registry[strings.ToLower(name)]
	return s, ok
}

// StyleCSS returns the stylesheet for the chroma classes emitted by the Highlighter.
func StyleCSS(name string) (string, error) {
	if name == "" {
		name = DefaultStyle
	}
	style, ok := LookupStyle(name)
	if !ok {
		return "", fmt.Errorf("unknown highlight style %q", name)
	}
	var buf bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("writing highlight css: %w", err)
	}
	return buf.String(), nil
}

// Highlighter applies language-aware syntax colouring to rendered code blocks.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	logger    *slog.Logger
}

// NewHighlighter creates a Highlighter for the named chroma style.
func NewHighlighter(styleName string, logger *slog.Logger) (*Highlighter, error) {
	if styleName == "" {
		styleName = DefaultStyle
	}
	style, ok := LookupStyle(styleName)
	if !ok {
		return nil, fmt.Errorf("unknown highlight style %q", styleName)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Highlighter{
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		logger:    logger,
	}, nil
}

// Report counts the outcome of one Apply pass.
type Report struct {
	Highlighted int
	Plain       int // blocks without a language hint
	Failed      int
}

// Apply highlights every pre > code block in d that carries a language-*
// class. A block that cannot be highlighted is left as rendered; the rest of
// the document is still processed.
func (h *Highlighter) Apply(d *Document) Report {
	var rep Report
	d.doc.Find("pre > code").Each(func(_ int, s *goquery.Selection) {
		lang := languageOf(s)
		if lang == "" {
			rep.Plain++
			return
		}
		if err := h.block(s, lang); err != nil {
			rep.Failed++
			h.logger.Debug("code block left unhighlighted", "language", lang, "error", err)
			return
		}
		rep.Highlighted++
	})
	return rep
}

func (h *Highlighter) block(s *goquery.Selection, lang string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("highlighter panic: %v", r)
		}
	}()

	lexer := lexers.Get(lang)
	if lexer == nil {
		return fmt.Errorf("%w %q", errUnknownLanguage, lang)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, s.Text())
	if err != nil {
		return fmt.Errorf("tokenising: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<div class="highlight" data-language="%s">`, html.EscapeString(lang))
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return fmt.Errorf("formatting: %w", err)
	}
	buf.WriteString(`</div>`)

	s.Parent().ReplaceWithHtml(buf.String())
	return nil
}

// WriteCSS writes the stylesheet for this Highlighter's style.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// languageOf extracts the hint from a class="language-xxx" attribute.
func languageOf(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok && lang != "" {
			return lang
		}
	}
	return ""
}
