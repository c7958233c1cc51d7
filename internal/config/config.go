// Package config holds rootbook configuration, one struct per concern,
// loaded from a YAML file with defaults for anything missing.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full rootbook configuration.
type Config struct {
	Canvas   CanvasConfig   `yaml:"canvas"`
	Renderer RendererConfig `yaml:"renderer"`
	History  HistoryConfig  `yaml:"history"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CanvasConfig sizes containers for drawables without an intrinsic size.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RendererConfig locates the browser-side renderer library.
type RendererConfig struct {
	LocalURL string `yaml:"local_url"`
	CDNURL   string `yaml:"cdn_url"`

	// ExcludePatterns overrides the classifier denylist when non-empty.
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// HistoryConfig locates the execution-history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig controls operational logging.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{Width: 800, Height: 600},
		Renderer: RendererConfig{
			LocalURL: "static/scripts/JSRoot.core.js",
			CDNURL:   "https://root.cern/js/6.1.0/scripts/JSRoot.core.min.js",
		},
		History: HistoryConfig{Enabled: true, Path: ".rootbook/history.db"},
	}
}

// Load reads the config at path. A missing file yields the defaults;
// present fields override them.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
