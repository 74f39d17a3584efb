// Package models defines data structures for configuration and scan results.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultMaxRedirects  = 10
	DefaultMinTextLength = 30
	DefaultMinHTMLLength = 100
	DefaultTimeout       = 10 * time.Second
	DefaultConcurrency   = 10
	DefaultMaxBatchSize  = 1000
	DefaultMaxBodyBytes  = 8 << 20

	DefaultUserAgent = "Mozilla/5.0 (compatible; BlankPageDetector/1.0; +https://example.com)"
	DefaultAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
)

// ScanConfig holds runtime configuration for the analysis pipeline.
// Values come from defaults, an optional YAML file, then CLI flags.
type ScanConfig struct {
	MaxRedirects  int           `yaml:"max_redirects"`
	MinTextLength int           `yaml:"min_text_length"`
	MinHTMLLength int           `yaml:"min_html_length"`
	Timeout       time.Duration `yaml:"timeout"`
	Concurrency   int           `yaml:"concurrency"`
	MaxBatchSize  int           `yaml:"max_batch_size"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RateLimit     float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	UserAgent     string        `yaml:"user_agent"`
	Accept        string        `yaml:"accept"`
}

// DefaultScanConfig returns the configuration used when nothing is overridden.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		MaxRedirects:  DefaultMaxRedirects,
		MinTextLength: DefaultMinTextLength,
		MinHTMLLength: DefaultMinHTMLLength,
		Timeout:       DefaultTimeout,
		Concurrency:   DefaultConcurrency,
		MaxBatchSize:  DefaultMaxBatchSize,
		MaxBodyBytes:  DefaultMaxBodyBytes,
		UserAgent:     DefaultUserAgent,
		Accept:        DefaultAccept,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (ScanConfig, error) {
	cfg := DefaultScanConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c ScanConfig) Validate() error {
	switch {
	case c.MaxRedirects < 0:
		return fmt.Errorf("%w: max_redirects must be >= 0 (got %d)", ErrInvalidConfig, c.MaxRedirects)
	case c.MinTextLength < 0:
		return fmt.Errorf("%w: min_text_length must be >= 0 (got %d)", ErrInvalidConfig, c.MinTextLength)
	case c.MinHTMLLength < 0:
		return fmt.Errorf("%w: min_html_length must be >= 0 (got %d)", ErrInvalidConfig, c.MinHTMLLength)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be > 0 (got %s)", ErrInvalidConfig, c.Timeout)
	case c.Concurrency <= 0:
		return fmt.Errorf("%w: concurrency must be > 0 (got %d)", ErrInvalidConfig, c.Concurrency)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be > 0 (got %d)", ErrInvalidConfig, c.MaxBatchSize)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be > 0 (got %d)", ErrInvalidConfig, c.MaxBodyBytes)
	case c.RateLimit < 0:
		return fmt.Errorf("%w: rate_limit must be >= 0 (got %g)", ErrInvalidConfig, c.RateLimit)
	}
	return nil
}
