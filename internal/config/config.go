// Package config handles configuration loading and session defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration file structure. Every field is
// optional; the zero-ish defaults come from Default.
type Config struct {
	// Datum is the session default datum identifier for UTM input.
	Datum string `yaml:"datum,omitempty"`
	// DocumentName names newly created documents.
	DocumentName string `yaml:"document_name,omitempty"`
	// Minify compacts the inner markup of saved archives.
	Minify bool `yaml:"minify,omitempty"`
	// Icon is a path to a custom placemark icon embedded on save.
	Icon string `yaml:"icon,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Datum:        "WGS84",
		DocumentName: "New Document",
	}
}

// Load reads and parses the YAML configuration file from the specified
// path. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
