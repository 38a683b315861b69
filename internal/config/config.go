// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults used when neither the config file, the environment nor a flag sets a value.
const (
	DefaultBaseURL  = "http://127.0.0.1:5000"
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 5
	DefaultCacheTTL = 10 * time.Minute
)

// Environment variables read by ApplyEnv.
const (
	EnvBaseURL   = "SKILLDIAG_BASE_URL"
	EnvTimeout   = "SKILLDIAG_TIMEOUT"
	EnvPageSize  = "SKILLDIAG_PAGE_SIZE"
	EnvRedisAddr = "SKILLDIAG_REDIS_ADDR"
	EnvCacheTTL  = "SKILLDIAG_CACHE_TTL"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Service
	BaseURL        string `json:"base_url,omitempty"`        // Job-matching service root URL
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Per-request timeout

	// Display
	PageSize int `json:"page_size,omitempty"` // Jobs per page

	// Cache
	RedisAddr       string `json:"redis_addr,omitempty"`        // host:port; empty disables the search cache
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty"` // Lifetime of cached search results

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print debug logs
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		TimeoutSeconds:  int(DefaultTimeout / time.Second),
		PageSize:        DefaultPageSize,
		CacheTTLSeconds: int(DefaultCacheTTL / time.Second),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Zero values are allowed; they are filled by MergeWithDefaults.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: 'base_url' must be an http(s) URL, got %q", c.BaseURL)
		}
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("config error: 'page_size' must be non-negative")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("config error: 'cache_ttl_seconds' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}

	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.PageSize == 0 {
		result.PageSize = defaults.PageSize
	}
	if result.CacheTTLSeconds == 0 {
		result.CacheTTLSeconds = defaults.CacheTTLSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overrides fields from SKILLDIAG_* environment variables.
// Durations accept Go syntax ("45s") or a plain number of seconds.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(getenv(EnvRedisAddr)); v != "" {
		c.RedisAddr = v
	}
	if v := strings.TrimSpace(getenv(EnvPageSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s: %w", EnvPageSize, err)
		}
		c.PageSize = n
	}
	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		secs, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("config error: %s: %w", EnvTimeout, err)
		}
		c.TimeoutSeconds = secs
	}
	if v := strings.TrimSpace(getenv(EnvCacheTTL)); v != "" {
		secs, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("config error: %s: %w", EnvCacheTTL, err)
		}
		c.CacheTTLSeconds = secs
	}

	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the search cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func parseSeconds(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	return int(d / time.Second), nil
}
