package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pytutor/internal/loader"
	"github.com/ziadkadry99/pytutor/internal/progress"
	"github.com/ziadkadry99/pytutor/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the tutorial as a static website",
	Long: `Renders every chapter to chapter-<id>.html with the sidebar and highlighted
code baked in, plus an index.html that forwards #<id> to the right page.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "output directory (overrides config)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}

	reg, l, err := newPipeline(cfg, logger, loader.LinkFormat(site.PageFile))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exporter := &site.Exporter{
		Registry:  reg,
		Loader:    l,
		OutputDir: cfg.OutputDir,
		Title:     cfg.Title,
		Style:     cfg.HighlightStyle,
		Reporter:  progress.NewReporter("Exporting chapters"),
		Logger:    logger,
	}
	res, err := exporter.Export(ctx)
	if err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}

	fmt.Printf("Static site generated: %s (%d pages)\n", cfg.OutputDir, res.Pages)
	if len(res.Failed) > 0 {
		fmt.Printf("Warning: %d chapter(s) could not be loaded and show a placeholder: %v\n", len(res.Failed), res.Failed)
	}
	return nil
}
