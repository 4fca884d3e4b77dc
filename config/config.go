// Package config holds runtime settings for the BenGo Rentals CLI.
//
// Settings are layered: defaults first, then an optional JSON file, then
// command-line flags. Later sources take precedence over earlier ones.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds runtime settings.
//
// Fields:
//   - DBPath: path of the local SQLite database file.
//   - Verbose: enables debug-level logging.
type Config struct {
	DBPath  string
	Verbose bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "bengo.db"
	c.Verbose = false
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling.
type jsonConfig struct {
	DBPath  string `json:"db_path"`
	Verbose *bool  `json:"verbose"`
}

// Load constructs a Config from defaults overlaid with values from the
// JSON file at path. An empty path skips the JSON stage. Flag overrides
// are applied afterwards by the CLI layer.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
	return cfg, nil
}
