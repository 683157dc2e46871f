package enrich

import "errors"

var (
	// ErrNoLookup is returned when an Enricher is created without a provider.
	ErrNoLookup = errors.New("bulk lookup provider required")

	// ErrInvalidMaxAttempts is returned when MaxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrSourceUnavailable marks a Result whose source could not be read at all.
	// Such a result carries no usable attributes and must not be persisted.
	ErrSourceUnavailable = errors.New("attribute source unavailable")

	// ErrInvalidBatchSize is returned when BatchSize is <= 0
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")
)
