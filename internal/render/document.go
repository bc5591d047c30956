package render

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML fragment that post-render passes mutate in place.
type Document struct {
	doc *goquery.Document
}

// ParseDocument parses an HTML fragment.
func ParseDocument(fragment string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Title returns the text of the first h1, or "" if there is none.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("h1").First().Text())
}

// CodeBlocks returns the number of pre > code elements.
func (d *Document) CodeBlocks() int {
	return d.doc.Find("pre > code").Length()
}

// RewriteLinks calls fn for every relative link to a .md file and replaces
// the href with fn's result when ok is true. The fragment of the original
// link is dropped.
func (d *Document) RewriteLinks(fn func(filename string) (string, bool)) int {
	n := 0
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(href)
		if err != nil || u.IsAbs() || u.Host != "" || !strings.HasSuffix(u.Path, ".md") {
			return
		}
		if replacement, ok := fn(path.Base(u.Path)); ok {
			s.SetAttr("href", replacement)
			n++
		}
	})
	return n
}

// HTML serialises the fragment (the body's inner HTML).
func (d *Document) HTML() (string, error) {
	out, err := d.doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialising html: %w", err)
	}
	return out, nil
}
