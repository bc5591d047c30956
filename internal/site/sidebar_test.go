package site

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/loader"
	"github.com/ziadkadry99/pytutor/internal/render"
)

func TestChapterListMarksOneActive(t *testing.T) {
	reg := chapters.Default()
	out := ChapterList(reg, "tutorial-01-introduction-to-python.md", loader.FragmentLinks)

	doc, err := render.ParseDocument(out)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if n := strings.Count(out, `class="chapter active"`); n != 1 {
		t.Fatalf("active entries = %d, want 1", n)
	}
	if !strings.Contains(out, `<li class="chapter active" data-filename="tutorial-01-introduction-to-python.md"`) {
		t.Error("chapter 1 should be the active entry")
	}
	if got := strings.Count(out, "<li "); got != reg.Len() {
		t.Errorf("entries = %d, want %d", got, reg.Len())
	}
	if doc.Title() != "" {
		t.Errorf("chapter list should contain no heading, got %q", doc.Title())
	}
}

func TestChapterListNoActive(t *testing.T) {
	out := ChapterList(chapters.Default(), "", PageFile)
	if strings.Contains(out, "active") {
		t.Error("no entry should be active")
	}
	if !strings.Contains(out, `href="chapter-5.html"`) {
		t.Error("expected page file links")
	}
}

func TestChapterListEscapes(t *testing.T) {
	reg, err := chapters.NewRegistry([]chapters.Chapter{
		{ID: 1, Title: "Lists & <Tuples>", Filename: "a.md", Glyph: "<>"},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := ChapterList(reg, "", loader.FragmentLinks)
	if !strings.Contains(out, "Lists &amp; &lt;Tuples&gt;") {
		t.Errorf("title not escaped: %s", out)
	}
	if strings.Contains(out, "<Tuples>") {
		t.Error("raw title leaked into markup")
	}
}
