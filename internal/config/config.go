// Package config loads glotfill.yaml and applies environment overrides.
//
// Load order: a .env file (if present) populates the environment, ${VAR}
// references in the raw YAML are expanded, the YAML is parsed, and finally
// GLOTFILL_* environment variables override individual fields. Command
// line flags are applied on top by the commands themselves.
package config

import (
	"fmt"
	"os"

	"github.com/a8m/envsubst"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/glotfill/glotfill/internal/osutil"
	"github.com/glotfill/glotfill/internal/translator"
)

const (
	// FileName is the default configuration file name.
	FileName = "glotfill.yaml"

	// DefaultMaxLength is the longest string sent to the provider when the
	// configuration does not say otherwise.
	DefaultMaxLength = 250
)

// Provider configures the machine-translation endpoint.
type Provider struct {
	URL       string `yaml:"url,omitempty" env:"GLOTFILL_PROVIDER_URL"`
	ProjectID string `yaml:"projectId,omitempty" env:"GLOTFILL_PROJECT_ID"`
	APIKey    string `yaml:"-" env:"GLOTFILL_API_KEY"`
}

// Config is the file-facing configuration shape.
type Config struct {
	Root        string                 `yaml:"root" env:"GLOTFILL_ROOT"`
	Languages   []string               `yaml:"languages,omitempty" env:"GLOTFILL_LANGUAGES" envSeparator:","`
	MaxLength   int                    `yaml:"maxLength,omitempty" env:"GLOTFILL_MAX_LENGTH"`
	Retranslate bool                   `yaml:"retranslate,omitempty" env:"GLOTFILL_RETRANSLATE"`
	Provider    Provider               `yaml:"provider,omitempty"`
	References  []translator.Reference `yaml:"references"`
}

// Load reads the configuration file and applies environment overrides.
// A missing file yields defaults so environment-only setups still work.
func Load(path string) (*Config, error) {
	// Populate the environment from .env first so both ${VAR} expansion
	// and the GLOTFILL_* overrides can see it. Absence is fine.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		expanded, err := envsubst.StringRestricted(string(data), false, false)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config: %w", err)
		}
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.Root = osutil.ExpandHome(cfg.Root)
	if cfg.MaxLength == 0 {
		cfg.MaxLength = DefaultMaxLength
	}

	return cfg, nil
}

// RunConfig maps the file-facing configuration onto the driver's run
// configuration. Flag-only knobs (jobs, backup) stay zero here.
func (c *Config) RunConfig() translator.RunConfig {
	return translator.RunConfig{
		Root:        c.Root,
		Languages:   c.Languages,
		MaxLength:   c.MaxLength,
		ProjectID:   c.Provider.ProjectID,
		Credential:  c.Provider.APIKey,
		Retranslate: c.Retranslate,
		References:  c.References,
	}
}
