package site

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/logging"
	"github.com/ziadkadry99/pytutor/internal/nav"
	"github.com/ziadkadry99/pytutor/internal/progress"
	"github.com/ziadkadry99/pytutor/internal/render"
)

// Exporter writes the tutorial as static pages, one chapter-<id>.html per
// chapter plus an index.html that forwards "#<id>" to the matching page.
// The Loader should rewrite chapter links with PageFile.
type Exporter struct {
	Registry  *chapters.Registry
	Loader    nav.Loader
	OutputDir string
	Title     string
	Style     string
	Reporter  progress.Reporter
	Logger    *slog.Logger
}

// ExportResult summarizes an export.
type ExportResult struct {
	Pages  int
	Failed []int // ids of chapters written with the placeholder
}

type indexData struct {
	SiteTitle string
	FirstPage string
	IDs       []int
}

// Export writes the site. It stops at the first I/O error or when ctx is done.
func (e *Exporter) Export(ctx context.Context) (ExportResult, error) {
	var res ExportResult
	logger := logging.OrDefault(e.Logger)
	reporter := e.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	title := e.Title
	if title == "" {
		title = DefaultTitle
	}

	chromaCSS, err := render.StyleCSS(e.Style)
	if err != nil {
		return res, err
	}
	pageTmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return res, fmt.Errorf("parsing page template: %w", err)
	}
	indexTmpl, err := template.New("index").Parse(exportIndexTemplate)
	if err != nil {
		return res, fmt.Errorf("parsing index template: %w", err)
	}

	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return res, err
	}

	// Write static assets.
	assets := map[string]string{
		"style.css":  cssContent,
		"chroma.css": chromaCSS,
		"script.js":  jsContent,
	}
	for name, body := range assets {
		if err := os.WriteFile(filepath.Join(e.OutputDir, name), []byte(body), 0o644); err != nil {
			return res, err
		}
	}

	all := e.Registry.All()
	ids := make([]int, 0, len(all))
	reporter.Start(len(all))
	defer reporter.Finish()

	for i, ch := range all {
		page, err := e.Loader.Load(ctx, ch)
		if err != nil {
			return res, fmt.Errorf("exporting chapter %d: %w", ch.ID, err)
		}
		if page.Failed {
			logger.Warn("exported chapter with placeholder", "id", ch.ID, "filename", ch.Filename)
			res.Failed = append(res.Failed, ch.ID)
		}

		data := pageData{
			Title:         page.Title,
			SiteTitle:     title,
			SidebarHTML:   template.HTML(ChapterList(e.Registry, ch.Filename, PageFile)),
			ContentHTML:   template.HTML(page.HTML),
			BannerVisible: page.Failed,
			Static:        true,
		}
		if err := writeTemplate(filepath.Join(e.OutputDir, PageFile(ch)), pageTmpl, data); err != nil {
			return res, fmt.Errorf("writing chapter %d: %w", ch.ID, err)
		}

		ids = append(ids, ch.ID)
		res.Pages++
		reporter.Update(i+1, ch.Title)
	}

	index := indexData{
		SiteTitle: title,
		FirstPage: PageFile(e.Registry.First()),
		IDs:       ids,
	}
	if err := writeTemplate(filepath.Join(e.OutputDir, "index.html"), indexTmpl, index); err != nil {
		return res, fmt.Errorf("writing index: %w", err)
	}
	return res, nil
}

func writeTemplate(path string, tmpl *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
