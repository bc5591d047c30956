package site

import (
	"fmt"
	"html"
	"strings"

	"github.com/ziadkadry99/pytutor/internal/chapters"
)

// ChapterList renders the sidebar chapter list in registry order. Only the
// entry whose filename equals activeFilename carries the "active" class; an
// empty activeFilename marks nothing. href maps each chapter to its link.
func ChapterList(reg *chapters.Registry, activeFilename string, href func(chapters.Chapter) string) string {
	var b strings.Builder
	b.WriteString(`<ul class="chapter-list">` + "\n")
	for _, ch := range reg.All() {
		class := "chapter"
		if activeFilename != "" && ch.Filename == activeFilename {
			class += " active"
		}
		fmt.Fprintf(&b, `<li class="%s" data-filename="%s" data-chapter-id="%d">`,
			class, html.EscapeString(ch.Filename), ch.ID)
		fmt.Fprintf(&b, `<a href="%s" data-chapter-id="%d"><span class="glyph">%s</span> <span class="chapter-title">%s</span></a>`,
			html.EscapeString(href(ch)), ch.ID, html.EscapeString(ch.Glyph), html.EscapeString(ch.Title))
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}

// PageFile is the exported file name for a chapter page.
func PageFile(ch chapters.Chapter) string {
	return fmt.Sprintf("chapter-%d.html", ch.ID)
}
