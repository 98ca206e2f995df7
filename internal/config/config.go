// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and STAFFBOARD_ env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address of the view-model API, e.g. ":9080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the base address of the remote HR API.
	APIBaseURL string `koanf:"api_base_url"`

	// APITimeoutMS bounds every remote API call.
	APITimeoutMS int `koanf:"api_timeout_ms"`

	// APIToken is an initial bearer token. APITokenFile, when set, is read at
	// startup and takes precedence.
	APIToken     string `koanf:"api_token"`
	APITokenFile string `koanf:"api_token_file"`

	// KeepUnusedDataForSec is the grace period before an unsubscribed cache
	// entry is evicted.
	KeepUnusedDataForSec int `koanf:"keep_unused_data_for_sec"`

	// RefetchQueueSize bounds the background refetch queue.
	RefetchQueueSize int `koanf:"refetch_queue_size"`

	// RefetchWorkerCount sets the number of refetch workers.
	RefetchWorkerCount int `koanf:"refetch_worker_count"`

	// PendingRefetchSize caps how many distinct keys may wait for a refetch.
	PendingRefetchSize int `koanf:"pending_refetch_size"`

	// DefaultSkillLimit and MaxSkillLimit shape GET /analytics/skills?limit.
	DefaultSkillLimit int `koanf:"default_skill_limit"`
	MaxSkillLimit     int `koanf:"max_skill_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		APIBaseURL:           "http://localhost:3000",
		APITimeoutMS:         30_000,
		KeepUnusedDataForSec: 300,
		RefetchQueueSize:     1_024,
		RefetchWorkerCount:   runtime.NumCPU(),
		PendingRefetchSize:   10_000,
		DefaultSkillLimit:    10,
		MaxSkillLimit:        50,
	}
}

// APITimeout returns the remote call timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}

// KeepUnusedDataFor returns the cache grace period as a duration.
func (c *Config) KeepUnusedDataFor() time.Duration {
	return time.Duration(c.KeepUnusedDataForSec) * time.Second
}
