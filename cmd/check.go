package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/loader"
	"github.com/ziadkadry99/pytutor/internal/nav"
	"github.com/ziadkadry99/pytutor/internal/progress"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that every chapter loads and matches its registry title",
	Long: `Loads every chapter through the full pipeline and reports chapters that fail
to load, chapters whose top-level heading differs from the registry title, and
tutorial-*.md files that no chapter refers to. Exits non-zero on any problem.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	reg, l, err := newPipeline(cfg, logger, loader.FragmentLinks)
	if err != nil {
		return err
	}

	problems, err := checkChapters(cmd.Context(), reg, l, progress.NewReporter("Checking chapters"))
	if err != nil {
		return err
	}

	if !cfg.Remote() {
		files, err := chapters.Discover(os.DirFS(cfg.ContentDir), "")
		if err != nil {
			return err
		}
		for _, f := range reg.Orphans(files) {
			problems = append(problems, fmt.Sprintf("%s: not listed in the chapter registry", f))
		}
	}

	if len(problems) == 0 {
		fmt.Printf("All %d chapters OK\n", reg.Len())
		return nil
	}
	for _, p := range problems {
		fmt.Println("  - " + p)
	}
	return fmt.Errorf("%d problem(s) found", len(problems))
}

// checkChapters loads each chapter and describes every chapter that failed to
// load or whose root heading is not its registry title.
func checkChapters(ctx context.Context, reg *chapters.Registry, l nav.Loader, reporter progress.Reporter) ([]string, error) {
	var problems []string

	all := reg.All()
	reporter.Start(len(all))
	defer reporter.Finish()

	for i, ch := range all {
		page, err := l.Load(ctx, ch)
		if err != nil {
			return nil, err
		}
		switch {
		case page.Failed:
			problems = append(problems, fmt.Sprintf("chapter %d (%s): could not be loaded", ch.ID, ch.Filename))
		case page.Heading == "":
			problems = append(problems, fmt.Sprintf("chapter %d (%s): no root heading, want %q", ch.ID, ch.Filename, ch.Title))
		case page.Heading != ch.Title:
			problems = append(problems, fmt.Sprintf("chapter %d (%s): heading %q does not match title %q", ch.ID, ch.Filename, page.Heading, ch.Title))
		}
		reporter.Update(i+1, ch.Title)
	}
	return problems, nil
}
