package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/pytutor/internal/chapters"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pytutor! Let's configure your tutorial.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Where the chapters live.
	contentPrompt := promptui.Prompt{
		Label:   "Directory containing the tutorial-*.md chapters",
		Default: cfg.ContentDir,
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("directory is required")
			}
			return nil
		},
	}
	contentDir, err := contentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	cfg.ContentDir = contentDir

	if files, err := chapters.Discover(os.DirFS(contentDir), ""); err == nil {
		fmt.Printf("Found %d chapter files in %s\n\n", len(files), contentDir)
	}

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port for pytutor serve",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			_, err := parsePort(s)
			return err
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	if cfg.Port, err = parsePort(portStr); err != nil {
		return nil, err
	}

	// 3. Highlight style.
	stylePrompt := promptui.Select{
		Label: "Select code highlight style",
		Items: WizardStyles,
	}
	_, style, err := stylePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("style selection: %w", err)
	}
	cfg.HighlightStyle = style

	// 4. Output directory for pytutor build.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the static site",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// parsePort parses a TCP port typed at the wizard prompt.
func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 1 || p > 65535 {
		return 0, fmt.Errorf("port must be a number between 1 and 65535, got %q", s)
	}
	return p, nil
}
