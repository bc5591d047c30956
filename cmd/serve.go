package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pytutor/internal/loader"
	"github.com/ziadkadry99/pytutor/internal/server"
	"github.com/ziadkadry99/pytutor/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tutorial reader over HTTP",
	Long: `Starts the tutorial reader on the configured port. Each open page keeps a
websocket to the server, which loads, repairs, renders and highlights the
selected chapter. With live_reload on, saving a chapter file refreshes every
page showing it.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("open", false, "open the reader in a browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}

	reg, l, err := newPipeline(cfg, logger, loader.FragmentLinks)
	if err != nil {
		return err
	}

	// Raw chapter files are only served when they are read from disk.
	contentDir := ""
	if !cfg.Remote() {
		contentDir = cfg.ContentDir
	}

	app, err := site.New(site.Options{
		Registry:   reg,
		Loader:     l,
		ContentDir: contentDir,
		Style:      cfg.HighlightStyle,
		Title:      cfg.Title,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:     cfg.Port,
		AllowAll: cfg.AllowAllOrigin,
	}, logger)
	app.RegisterRoutes(srv.Router())

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.LiveReload && contentDir != "" {
		w, err := site.NewWatcher(contentDir, "", app.Hub(), logger)
		if err != nil {
			logger.Warn("live reload disabled", "error", err)
		} else {
			go w.Run(ctx)
		}
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://localhost:%d/", cfg.Port)
	fmt.Fprintf(os.Stderr, "pytutor %s serving %d chapters at %s (press Ctrl+C to stop)\n", Version, reg.Len(), url)
	if open, _ := cmd.Flags().GetBool("open"); open {
		go openBrowser(url)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
