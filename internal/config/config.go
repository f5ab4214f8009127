// Package config loads the tool configuration and user-supplied capability
// catalogs from yaml files.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds the runtime configuration for the negotiation tool.
type Config struct {
	Device struct {
		// Snapshot is a path to a device snapshot file. When set, the tool
		// negotiates against the snapshot instead of live hardware.
		Snapshot string `yaml:"snapshot"`
		// Preferred selects the physical device by name substring.
		Preferred string `yaml:"preferred"`
	} `yaml:"device"`

	Catalog struct {
		// Path to a catalog file; the built-in catalog is used when empty.
		Path string `yaml:"path"`
	} `yaml:"catalog"`

	// Guards lists guarded extensions whose guard is active on this target.
	Guards []string `yaml:"guards"`

	Logging struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	} `yaml:"logging"`
}

// Load reads and validates a Config from a yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
