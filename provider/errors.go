package provider

import "errors"

var (
	// ErrMissingAPIKey is returned when no API credential is configured.
	ErrMissingAPIKey = errors.New("provider API key required")

	// ErrEmptyBatch is returned when a lookup is requested for zero domains.
	ErrEmptyBatch = errors.New("lookup batch is empty")

	// ErrBatchTooLarge is returned when a batch exceeds the provider limit.
	ErrBatchTooLarge = errors.New("lookup batch exceeds provider limit")

	// ErrUnexpectedStatus is returned for non-success HTTP responses.
	ErrUnexpectedStatus = errors.New("provider returned unexpected status")

	// ErrMalformedResponse is returned when the response cannot be interpreted.
	ErrMalformedResponse = errors.New("provider returned malformed response")
)
