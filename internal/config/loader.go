package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	envPrefix     = "STAFFBOARD_"
	envConfigFile = "STAFFBOARD_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if STAFFBOARD_CONFIG is set
//  3. env (prefix STAFFBOARD_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// STAFFBOARD_API_BASE_URL -> api_base_url (flat keys, underscores kept).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api_base_url must be an absolute http(s) url, got %q", ErrInvalidConfig, c.APIBaseURL)
	}
	if c.APITimeoutMS < 0 {
		return fmt.Errorf("%w: api_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.KeepUnusedDataForSec < 0 {
		return fmt.Errorf("%w: keep_unused_data_for_sec must not be negative", ErrInvalidConfig)
	}
	if c.MaxSkillLimit > 0 && c.DefaultSkillLimit > c.MaxSkillLimit {
		return fmt.Errorf("%w: default_skill_limit exceeds max_skill_limit", ErrInvalidConfig)
	}
	return nil
}
