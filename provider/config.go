// Copyright 2025 Poiesic Systems
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


package provider

import (
	"errors"
	"strings"
	"time"
)

const (
	// MaxBatchSize is the number of domains the bulk enrichment endpoint accepts per call.
	MaxBatchSize = 10

	// DefaultBaseURL is the Apollo API host.
	DefaultBaseURL = "https://api.apollo.io"

	// BulkEnrichPath is the bulk organization enrichment endpoint.
	BulkEnrichPath = "/api/v1/organizations/bulk_enrich"
)

// Config holds configuration for the company-data provider.
type Config struct {
	// BaseURL is the scheme and host of the provider API, without a trailing slash.
	// Example: "https://api.apollo.io"
	BaseURL string

	// APIKey is the credential sent with every request.
	APIKey string

	// BatchLimit is the maximum number of domains per request.
	// Values above MaxBatchSize are clamped by Normalize.
	// Default: 10
	BatchLimit int

	// Timeout bounds a single HTTP request.
	// Default: 30s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the provider API host.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithAPIKey sets the API credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBatchLimit sets the per-request domain limit.
func WithBatchLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.BatchLimit = limit
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config pointing at the public Apollo API.
// The API key has no default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		BatchLimit: MaxBatchSize,
		Timeout:    30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("APOLLO_API_KEY")),
//	    WithTimeout(10*time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It strips trailing slashes from BaseURL and clamps BatchLimit to MaxBatchSize.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.BatchLimit > MaxBatchSize {
		c.BatchLimit = MaxBatchSize
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("provider config: BaseURL is required")
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BatchLimit < 1 {
		return errors.New("provider config: BatchLimit must be at least 1")
	}
	if c.Timeout <= 0 {
		return errors.New("provider config: Timeout must be positive")
	}
	return nil
}

// Endpoint returns the full bulk enrichment URL.
func (c *Config) Endpoint() string {
	return c.BaseURL + BulkEnrichPath
}
