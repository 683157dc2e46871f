package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/enrichit/cache"
	"github.com/poiesic/enrichit/enrich"
	"github.com/poiesic/enrichit/provider"
	"github.com/poiesic/enrichit/storage/postgres"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded file fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the on-disk configuration.
type Config struct {
	Provider ProviderSection `yaml:"provider"`
	Enrich   EnrichSection   `yaml:"enrich"`
	Postgres PostgresSection `yaml:"postgres"`
	Cache    CacheSection    `yaml:"cache"`
	Capture  CaptureSection  `yaml:"capture"`
	Logging  LoggingSection  `yaml:"logging"`
}

// ProviderSection configures the company-data provider.
// The API key is normally supplied through APOLLO_API_KEY rather than the file.
type ProviderSection struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// EnrichSection configures batching, pacing and retries.
type EnrichSection struct {
	BatchSize    int           `yaml:"batch_size"`
	PaceInterval time.Duration `yaml:"pace_interval"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
}

// PostgresSection configures the customer store.
type PostgresSection struct {
	URL             string        `yaml:"url"`
	Schema          string        `yaml:"schema"`
	CustomersTable  string        `yaml:"customers_table"`
	IndustriesTable string        `yaml:"industries_table"`
	EmailColumn     string        `yaml:"email_column"`
	AttributeColumn string        `yaml:"attribute_column"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	Atomic          bool          `yaml:"atomic"`
	Strict          bool          `yaml:"strict"`
}

// CacheSection configures the text cache file.
// Record makes live passes write their complete results to Path.
type CacheSection struct {
	Path   string `yaml:"path"`
	Record bool   `yaml:"record"`
}

// CaptureSection configures the capture store. An empty path disables it.
type CaptureSection struct {
	Path string `yaml:"path"`
}

// LoggingSection configures the log level.
type LoggingSection struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	p := provider.DefaultConfig()
	e := enrich.DefaultConfig()
	pg := postgres.DefaultConfig()
	return &Config{
		Provider: ProviderSection{
			BaseURL: p.BaseURL,
			Timeout: p.Timeout,
		},
		Enrich: EnrichSection{
			BatchSize:    e.BatchSize,
			PaceInterval: e.PaceInterval,
			MaxAttempts:  e.MaxAttempts,
			RetryDelay:   e.RetryDelay,
		},
		Postgres: PostgresSection{
			URL:             pg.URL,
			Schema:          pg.Schema,
			CustomersTable:  pg.CustomersTable,
			IndustriesTable: pg.IndustriesTable,
			EmailColumn:     pg.EmailColumn,
			AttributeColumn: pg.AttributeColumn,
			ConnectTimeout:  pg.ConnectTimeout,
		},
		Cache: CacheSection{
			Path:   cache.DefaultPath,
			Record: true,
		},
		Logging: LoggingSection{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	// yaml.Unmarshal keeps fields absent from the file at their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that have no later chance to be corrected.
// Missing credentials are left to the component configs.
func (c *Config) Validate() error {
	if c.Enrich.BatchSize < 1 {
		return fmt.Errorf("%w: enrich.batch_size must be at least 1", ErrInvalidConfig)
	}
	if c.Enrich.MaxAttempts < 1 {
		return fmt.Errorf("%w: enrich.max_attempts must be at least 1", ErrInvalidConfig)
	}
	if c.Enrich.PaceInterval < 0 || c.Enrich.RetryDelay < 0 {
		return fmt.Errorf("%w: enrich durations must not be negative", ErrInvalidConfig)
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("%w: cache.path is required", ErrInvalidConfig)
	}
	return nil
}

// ProviderConfig returns the provider settings as a provider.Config.
func (c *Config) ProviderConfig() *provider.Config {
	return provider.NewConfig(
		provider.WithBaseURL(c.Provider.BaseURL),
		provider.WithAPIKey(c.Provider.APIKey),
		provider.WithBatchLimit(c.Enrich.BatchSize),
		provider.WithTimeout(c.Provider.Timeout),
	)
}

// EnrichConfig returns the enrichment settings as an enrich.Config.
func (c *Config) EnrichConfig() *enrich.Config {
	return &enrich.Config{
		BatchSize:    c.Enrich.BatchSize,
		PaceInterval: c.Enrich.PaceInterval,
		MaxAttempts:  c.Enrich.MaxAttempts,
		RetryDelay:   c.Enrich.RetryDelay,
	}
}

// PostgresConfig returns the store settings as a postgres.Config.
func (c *Config) PostgresConfig() *postgres.Config {
	return &postgres.Config{
		URL:             c.Postgres.URL,
		Schema:          c.Postgres.Schema,
		CustomersTable:  c.Postgres.CustomersTable,
		IndustriesTable: c.Postgres.IndustriesTable,
		EmailColumn:     c.Postgres.EmailColumn,
		AttributeColumn: c.Postgres.AttributeColumn,
		ConnectTimeout:  c.Postgres.ConnectTimeout,
	}
}
