// Package config loads project settings from untangle.yml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/untangle/internal/ident"
	"github.com/dusk-indust/untangle/internal/lister"
	"github.com/dusk-indust/untangle/internal/strategy"
)

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"untangle.yml", "untangle.yaml"}

// ProjectConfig holds project-level settings loaded from untangle.yml.
type ProjectConfig struct {
	ScanMode            lister.Mode     `yaml:"scanMode,omitempty"`
	NamingConvention    strategy.Naming `yaml:"namingConvention,omitempty"`
	ExcludeDirs         []string        `yaml:"excludeDirs,omitempty"`
	Languages           []string        `yaml:"languages,omitempty"`
	Workers             int             `yaml:"workers,omitempty"`
	ExtractTimeout      time.Duration   `yaml:"extractTimeout,omitempty"`
	SimilarityThreshold float64         `yaml:"similarityThreshold,omitempty"`
	NestingWeight       float64         `yaml:"nestingWeight,omitempty"`
	GraphDB             string          `yaml:"graphDB,omitempty"`
	Verbose             bool            `yaml:"verbose,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() *ProjectConfig {
	return &ProjectConfig{
		ScanMode:            lister.ModeJJ,
		NamingConvention:    strategy.NamingJJ,
		Workers:             4,
		ExtractTimeout:      2 * time.Second,
		SimilarityThreshold: 0.5,
		NestingWeight:       1.0,
	}
}

// Load attempts to read untangle.yml or untangle.yaml from the given
// directory. Returns the defaults (not an error) if no config file exists.
// Fields absent from the file keep their default values.
func Load(dir string) (*ProjectConfig, error) {
	cfg := Default()
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, nil
	}
	return cfg, nil
}

// Validate rejects unknown enum values and out-of-range numbers.
func (c *ProjectConfig) Validate() error {
	switch c.ScanMode {
	case lister.ModeJJ, lister.ModeScan:
	default:
		return fmt.Errorf("unknown scanMode %q (want %q or %q)", c.ScanMode, lister.ModeJJ, lister.ModeScan)
	}
	if !c.NamingConvention.Valid() {
		return fmt.Errorf("unknown namingConvention %q (want %q or %q)", c.NamingConvention, strategy.NamingJJ, strategy.NamingGit)
	}
	for _, l := range c.Languages {
		if _, ok := ident.ParseLanguage(l); !ok {
			return fmt.Errorf("unsupported language %q", l)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ExtractTimeout <= 0 {
		return fmt.Errorf("extractTimeout must be positive, got %s", c.ExtractTimeout)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarityThreshold must be in [0,1], got %g", c.SimilarityThreshold)
	}
	if c.NestingWeight < 0 {
		return fmt.Errorf("nestingWeight must not be negative, got %g", c.NestingWeight)
	}
	return nil
}

// LanguageSet returns the configured languages, or nil for all supported.
func (c *ProjectConfig) LanguageSet() []ident.Language {
	var out []ident.Language
	for _, name := range c.Languages {
		if l, ok := ident.ParseLanguage(name); ok {
			out = append(out, l)
		}
	}
	return out
}
