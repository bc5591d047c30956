package config

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = ".pytutor.yml"

// EnvPrefix prefixes environment overrides, e.g. PYTUTOR_PORT.
const EnvPrefix = "PYTUTOR_"

// WizardStyles are the highlight styles offered by the init wizard.
var WizardStyles = []string{"github", "monokai", "dracula", "friendly", "solarized-light", "nord"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           8000,
		ContentDir:     ".",
		HighlightStyle: "github",
		OutputDir:      "site",
		Title:          "Python Tutorial",
		LiveReload:     true,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}
