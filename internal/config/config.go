// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads heyreach settings from a YAML file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tombee/heyreach/internal/integration/heyreach"
	"github.com/tombee/heyreach/internal/log"
	"github.com/tombee/heyreach/internal/tracing"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config represents the complete heyreach configuration.
type Config struct {
	API     APIConfig      `yaml:"api"`
	Log     log.Config     `yaml:"log"`
	Tracing tracing.Config `yaml:"tracing"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// APIConfig configures the upstream client.
type APIConfig struct {
	// BaseURL is the public API root.
	// Environment: HEYREACH_BASE_URL
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates requests. Prefer the keychain or the environment
	// over storing it in the file.
	// Environment: HEYREACH_API_KEY
	APIKey string `yaml:"api_key,omitempty"`

	// Timeout bounds each request.
	// Environment: HEYREACH_TIMEOUT
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// RateLimitPerMinute paces outgoing requests. Zero disables pacing.
	// Environment: HEYREACH_RATE_LIMIT
	// Default: 300
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// MaxPages caps paginated reads.
	// Environment: HEYREACH_MAX_PAGES
	// Default: 1000
	MaxPages int `yaml:"max_pages"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	// Textfile is written in the Prometheus text format after each run when set.
	Textfile string `yaml:"textfile,omitempty"`
}

// ConfigError reports a configuration problem at a key.
type ConfigError struct {
	Key    string
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:            heyreach.DefaultBaseURL,
			Timeout:            60 * time.Second,
			RateLimitPerMinute: 300,
			MaxPages:           heyreach.DefaultMaxPages,
		},
		Log:     *log.DefaultConfig(),
		Tracing: tracing.DefaultConfig(),
	}
}

// Load reads configuration from configPath (optional), then a .env file in the
// working directory, then the environment. Later sources win.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()

	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &ConfigError{Key: "dotenv", Reason: "failed to parse .env", Cause: err}
	}
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// LoadDefault loads the file at ConfigPath when it exists, and the
// environment otherwise.
func LoadDefault() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Load("")
	}
	if _, err := os.Stat(path); err != nil {
		return Load("")
	}
	return Load(path)
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.API.MaxPages == 0 {
		c.API.MaxPages = d.API.MaxPages
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Log.Output == nil {
		c.Log.Output = d.Log.Output
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = d.Tracing.Exporter
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = d.Tracing.ServiceName
	}
	if c.Tracing.BatchInterval == 0 {
		c.Tracing.BatchInterval = d.Tracing.BatchInterval
	}
}

func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("HEYREACH_API_KEY"); val != "" {
		c.API.APIKey = val
	}
	if val := os.Getenv("HEYREACH_BASE_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("HEYREACH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.API.Timeout = d
		}
	}
	if val := os.Getenv("HEYREACH_RATE_LIMIT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.API.RateLimitPerMinute = n
		}
	}
	if val := os.Getenv("HEYREACH_MAX_PAGES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.API.MaxPages = n
		}
	}

	log.ApplyEnv(&c.Log)

	if val := os.Getenv("HEYREACH_TRACING_ENDPOINT"); val != "" {
		c.Tracing.Endpoint = val
	}
	if val := os.Getenv("HEYREACH_METRICS_FILE"); val != "" {
		c.Metrics.Textfile = val
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if !strings.HasPrefix(c.API.BaseURL, "https://") && !strings.HasPrefix(c.API.BaseURL, "http://") {
		errs = append(errs, fmt.Sprintf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("api.timeout must be positive, got %v", c.API.Timeout))
	}
	if c.API.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Sprintf("api.rate_limit_per_minute must not be negative, got %d", c.API.RateLimitPerMinute))
	}
	if c.API.MaxPages < 1 {
		errs = append(errs, fmt.Sprintf("api.max_pages must be at least 1, got %d", c.API.MaxPages))
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, error], got %q", c.Log.Level))
	}
	if c.Log.Format != log.FormatJSON && c.Log.Format != log.FormatText {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, "tracing: "+err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}

// Client builds the upstream client settings. Credentials, logging and
// telemetry are wired by the caller.
func (c *Config) Client() heyreach.Config {
	return heyreach.Config{
		BaseURL:           c.API.BaseURL,
		Timeout:           c.API.Timeout,
		RequestsPerMinute: c.API.RateLimitPerMinute,
		MaxPages:          c.API.MaxPages,
	}
}
