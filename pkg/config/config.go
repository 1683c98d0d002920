// Package config loads the CLI's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source formats.
const (
	FormatNative  = "native"
	FormatOpenAPI = "openapi"
)

// Config lists the schema sources to load and the describe output options.
type Config struct {
	Sources  []Source `yaml:"sources"`
	Describe Describe `yaml:"describe"`
}

// Source is one schema document to load.
type Source struct {
	// Path is a file path, or an HTTP(S) URL for OpenAPI sources.
	Path string `yaml:"path"`
	// Format is "native" (the indexed-table document format) or
	// "openapi". Defaults to native.
	Format string `yaml:"format"`
}

// Describe configures markdown output for the describe command.
type Describe struct {
	// Resource optionally restricts output to one qualified resource
	// type name; empty means all resources in the loaded sources.
	Resource string `yaml:"resource"`
	// OutDir is where markdown files land; empty writes to stdout.
	OutDir string `yaml:"outDir"`
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Source paths are relative to the config file.
	base := filepath.Dir(path)
	for i := range cfg.Sources {
		if !filepath.IsAbs(cfg.Sources[i].Path) && !isURL(cfg.Sources[i].Path) {
			cfg.Sources[i].Path = filepath.Join(base, cfg.Sources[i].Path)
		}
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Sources) == 0 {
		return errors.New("config must list at least one source")
	}
	for i := range c.Sources {
		s := &c.Sources[i]
		if s.Path == "" {
			return fmt.Errorf("sources[%d]: path is required", i)
		}
		switch s.Format {
		case "":
			s.Format = FormatNative
		case FormatNative, FormatOpenAPI:
		default:
			return fmt.Errorf("sources[%d]: unknown format %q", i, s.Format)
		}
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
