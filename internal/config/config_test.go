package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.ContentDir != "." {
		t.Errorf("expected default content_dir %q, got %q", ".", cfg.ContentDir)
	}
	if cfg.HighlightStyle != "github" {
		t.Errorf("expected default highlight_style %q, got %q", "github", cfg.HighlightStyle)
	}
	if !cfg.LiveReload {
		t.Error("expected live_reload on by default")
	}
	if cfg.Remote() {
		t.Error("default config should read chapters from disk")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pytutor.yml")

	original := DefaultConfig()
	original.Port = 9090
	original.ContentDir = "tutorials"
	original.ContentURL = "http://localhost:8080/tutorials/"
	original.HighlightStyle = "monokai"
	original.LiveReload = false
	original.LogFormat = "json"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if *loaded != *original {
		t.Errorf("loaded config = %+v, want %+v", *loaded, *original)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", *cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	if err := os.WriteFile(path, []byte("port: 8123\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8123 {
		t.Errorf("port: got %d, want 8123", cfg.Port)
	}
	if cfg.OutputDir != "site" {
		t.Errorf("output_dir should keep its default, got %q", cfg.OutputDir)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("PYTUTOR_PORT", "9001")
	t.Setenv("PYTUTOR_CONTENT_DIR", "/srv/tutorial")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 9001 {
		t.Errorf("env override failed: port = %d, want 9001", loaded.Port)
	}
	if loaded.ContentDir != "/srv/tutorial" {
		t.Errorf("env override failed: content_dir = %q", loaded.ContentDir)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"empty content dir", func(c *Config) { c.ContentDir = "" }},
		{"relative content url", func(c *Config) { c.ContentURL = "tutorials/" }},
		{"ftp content url", func(c *Config) { c.ContentURL = "ftp://example.com/" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"unknown style", func(c *Config) { c.HighlightStyle = "no-such-style" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"8000", 8000, false},
		{" 9090 ", 9090, false},
		{"abc", 0, true},
		{"", 0, true},
		{"0", 0, true},
		{"70000", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePort(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePort(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePort(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
