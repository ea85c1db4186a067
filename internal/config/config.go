// Package config loads the mdatool configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/logicossoftware/go-mda"
)

// Config is the mdatool configuration file.
type Config struct {
	// Limits caps the volumes mdatool agrees to decode. Zero fields keep
	// the library defaults.
	Limits struct {
		MaxWidth        int    `yaml:"maxWidth"`
		MaxHeight       int    `yaml:"maxHeight"`
		MaxDepth        int    `yaml:"maxDepth"`
		MaxPayloadBytes uint64 `yaml:"maxPayloadBytes"`
	} `yaml:"limits"`

	// ByteRange folds ubyte samples into the reported sample range.
	ByteRange bool `yaml:"byteRange"`

	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"logLevel"`

	// Format is the output format of inspect and stats: yaml or json.
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Format:   "yaml",
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// ReadOptions converts the configuration into decoder options.
func (c *Config) ReadOptions() []mda.ReadOption {
	return []mda.ReadOption{
		mda.WithReadLimits(mda.Limits{
			MaxWidth:        c.Limits.MaxWidth,
			MaxHeight:       c.Limits.MaxHeight,
			MaxDepth:        c.Limits.MaxDepth,
			MaxPayloadBytes: c.Limits.MaxPayloadBytes,
		}),
		mda.WithByteRange(c.ByteRange),
	}
}
