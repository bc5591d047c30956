package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/config"
	"github.com/ziadkadry99/pytutor/internal/fetch"
	"github.com/ziadkadry99/pytutor/internal/loader"
	"github.com/ziadkadry99/pytutor/internal/logging"
	"github.com/ziadkadry99/pytutor/internal/render"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `pytutor init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setup loads the config and builds the stderr logger. --verbose forces debug level.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(os.Stderr, level, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// loadRegistry returns the configured chapter list, or the built-in one.
func loadRegistry(cfg *config.Config) (*chapters.Registry, error) {
	if cfg.ChaptersFile == "" {
		return chapters.Default(), nil
	}
	return chapters.Load(cfg.ChaptersFile)
}

// newSource reads chapters from content_url when set, else from content_dir.
func newSource(cfg *config.Config) (fetch.Source, error) {
	if cfg.Remote() {
		return fetch.NewHTTPSource(cfg.ContentURL, nil)
	}
	return fetch.NewDirSource(cfg.ContentDir), nil
}

// newPipeline builds the registry and chapter loader shared by every command.
// links decides how inter-chapter .md links are rewritten.
func newPipeline(cfg *config.Config, logger *slog.Logger, links loader.LinkFormat) (*chapters.Registry, *loader.Loader, error) {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}
	src, err := newSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	highlighter, err := render.NewHighlighter(cfg.HighlightStyle, logger)
	if err != nil {
		return nil, nil, err
	}
	l := loader.New(reg, fetch.NewFetcher(src, logger), render.NewRenderer(), highlighter,
		loader.WithLinkFormat(links),
		loader.WithLogger(logger),
	)
	return reg, l, nil
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
