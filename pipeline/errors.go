package pipeline

import "errors"

var (
	// ErrConnectorRequired is returned when a storage connector is not provided.
	ErrConnectorRequired = errors.New("storage connector required")

	// ErrSourceRequired is returned when an attribute source is not provided.
	ErrSourceRequired = errors.New("attribute source required")

	// ErrStorageUnavailable is returned when the customer store cannot be reached.
	ErrStorageUnavailable = errors.New("customer store unavailable")

	// ErrLengthMismatch is returned by strict reconciliation when the
	// identifier and attribute lists differ in length.
	ErrLengthMismatch = errors.New("identifier and attribute counts differ")
)
