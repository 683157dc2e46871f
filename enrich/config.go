package enrich

import (
	"errors"
	"time"

	"github.com/poiesic/enrichit/provider"
)

// Config holds configuration for an enrichment pass.
type Config struct {
	// BatchSize is the number of keys per provider call.
	// Values above provider.MaxBatchSize are clamped.
	BatchSize int

	// PaceInterval is the minimum spacing between provider calls.
	// Zero disables pacing.
	PaceInterval time.Duration

	// MaxAttempts is the number of tries per batch. 1 disables retries.
	MaxAttempts int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config matching the provider's documented limits:
// full batches, one call every four seconds and no retries.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:    provider.MaxBatchSize,
		PaceInterval: 4 * time.Second,
		MaxAttempts:  1,
		RetryDelay:   1 * time.Second,
	}
}

// Normalize clamps BatchSize to the provider limit.
func (c *Config) Normalize() {
	if c.BatchSize > provider.MaxBatchSize {
		c.BatchSize = provider.MaxBatchSize
	}
}

// Validate checks that the configuration is usable.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BatchSize < 1 {
		return ErrInvalidBatchSize
	}
	if c.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}
	if c.PaceInterval < 0 {
		return errors.New("enrich config: PaceInterval must not be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New("enrich config: RetryDelay must not be negative")
	}
	return nil
}
