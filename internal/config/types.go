package config

// Config is the top-level pytutor configuration, corresponding to .pytutor.yml.
type Config struct {
	Port int `yaml:"port" koanf:"port"`
	// ContentDir holds the chapter Markdown files. It is read directly unless
	// ContentURL is set, and is served under /content/ and watched for changes.
	ContentDir string `yaml:"content_dir" koanf:"content_dir"`
	// ContentURL, when set, is the base URL chapter files are fetched from.
	ContentURL     string `yaml:"content_url" koanf:"content_url"`
	ChaptersFile   string `yaml:"chapters_file" koanf:"chapters_file"`
	HighlightStyle string `yaml:"highlight_style" koanf:"highlight_style"`
	OutputDir      string `yaml:"output_dir" koanf:"output_dir"`
	Title          string `yaml:"title" koanf:"title"`
	LiveReload     bool   `yaml:"live_reload" koanf:"live_reload"`
	AllowAllOrigin bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	LogLevel       string `yaml:"log_level" koanf:"log_level"`
	LogFormat      string `yaml:"log_format" koanf:"log_format"`
}
