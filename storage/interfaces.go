package storage

import (
	"context"

	"github.com/poiesic/enrichit/core"
)

// CustomerSource reads the records to enrich.
type CustomerSource interface {
	// ListCustomers returns every (id, email) row in the customer store.
	// Order is not guaranteed; callers sort by ID.
	ListCustomers(ctx context.Context) ([]core.Customer, error)
}

// ResultSink persists enrichment results.
//
// The two-step protocol mirrors how results land in the customer store:
// StageAttributes replaces the staging table with the given pairs and
// MergeAttributes copies staged values onto the customer rows. Each step is
// idempotent, so a failed pass can be re-run from the start.
type ResultSink interface {
	// StageAttributes drops and recreates the staging table, then bulk-loads pairs.
	// Unknown attributes are stored as NULL.
	StageAttributes(ctx context.Context, pairs []core.EnrichedPair) error

	// MergeAttributes drops and re-adds the customer attribute column, then
	// fills it from the staging table by ID. Customers without a staged row
	// end up NULL.
	MergeAttributes(ctx context.Context) error

	// ReplaceAttributes runs both steps inside one transaction.
	ReplaceAttributes(ctx context.Context, pairs []core.EnrichedPair) error
}

// Store is a connection to the customer database used for one phase of a pass.
type Store interface {
	CustomerSource
	ResultSink

	// Close releases the connection.
	Close() error
}

// Connector opens Stores. Each call yields an independent connection.
type Connector interface {
	// Connect opens a connection and verifies it is usable.
	// Returns an error wrapping ErrConnectionFailed when the database is unreachable.
	Connect(ctx context.Context) (Store, error)
}

// CaptureRepository persists result lists from live passes.
type CaptureRepository interface {
	// SaveCapture stores capture and marks it as the latest.
	// CapturedAt is set when zero.
	SaveCapture(ctx context.Context, capture *core.Capture) error

	// LoadCapture returns the capture recorded for fingerprint.
	// Returns ErrNotFound if none exists.
	LoadCapture(ctx context.Context, fingerprint core.Fingerprint) (*core.Capture, error)

	// LatestCapture returns the most recently saved capture.
	// Returns ErrNotFound if nothing has been captured.
	LatestCapture(ctx context.Context) (*core.Capture, error)

	// Close releases resources held by the repository.
	Close() error
}
