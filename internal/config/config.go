// Package config loads optional YAML defaults for the superpix CLI,
// adapted from mrislicesto3d/pkg/config's Config/DefaultConfig/Load
// shape. Command-line flags still take precedence: after flag.Parse, the
// CLI copies loaded values only into flags that were not set explicitly,
// for batch jobs that want to pin a set of parameters across many
// invocations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors superpix.Config plus the CLI-only output options.
type Config struct {
	Algorithm            string  `yaml:"algorithm"`
	K                    int     `yaml:"k"`
	M                    int     `yaml:"m"`
	Iterations           int     `yaml:"iterations"`
	MinComponentFraction float64 `yaml:"minComponentFraction"`
	Segments             bool    `yaml:"segments"`
	SegmentColor         string  `yaml:"segmentColor"`
	NoMean               bool    `yaml:"noMean"`
}

// Default returns the spec's defaults (spec.md §6).
func Default() Config {
	return Config{
		Algorithm:            "snic",
		K:                    1000,
		M:                    10,
		Iterations:           10,
		MinComponentFraction: 0.25,
		SegmentColor:         "000",
	}
}

// Load reads a YAML config file, overlaying it onto Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
