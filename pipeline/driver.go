package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/enrich"
	"github.com/poiesic/enrichit/storage"
)

// Source returns one attribute per key, in key order.
// *enrich.Enricher, *cache.FileSource and *cache.CaptureSource implement it.
type Source interface {
	Enrich(ctx context.Context, keys []core.Domain) enrich.Result
}

// Report summarizes a finished pass.
type Report struct {
	Customers int  // Rows read from the customer store
	Requested int  // Keys handed to the source
	Enriched  int  // Pairs written
	Known     int  // Written pairs with a value
	Unknown   int  // Written pairs without a value
	Partial   bool // Fewer pairs than customers were written
}

// Driver runs enrichment passes.
type Driver struct {
	connector   storage.Connector
	source      Source
	recorder    *Recorder
	policy      MismatchPolicy
	atomicWrite bool
	logger      *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// WithMismatchPolicy sets how a short attribute list is handled.
// Default is TruncateOnMismatch.
func WithMismatchPolicy(policy MismatchPolicy) Option {
	return func(d *Driver) {
		d.policy = policy
	}
}

// WithRecorder persists each source result before the write phase.
func WithRecorder(recorder *Recorder) Option {
	return func(d *Driver) {
		d.recorder = recorder
	}
}

// WithAtomicWrite stages and merges in a single transaction.
func WithAtomicWrite(atomic bool) Option {
	return func(d *Driver) {
		d.atomicWrite = atomic
	}
}

// NewDriver creates a driver reading and writing through connector.
func NewDriver(connector storage.Connector, source Source, opts ...Option) (*Driver, error) {
	if connector == nil {
		return nil, ErrConnectorRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}

	d := &Driver{
		connector: connector,
		source:    source,
		policy:    TruncateOnMismatch,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "driver")
	return d, nil
}

// Run executes one pass.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	customers, err := d.readCustomers(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{Customers: len(customers)}

	slices.SortStableFunc(customers, func(a, b core.Customer) int {
		return cmp.Compare(a.ID, b.ID)
	})
	ids := make([]core.CustomerID, len(customers))
	keys := make([]core.Domain, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
		keys[i] = c.Domain()
	}
	report.Requested = len(keys)

	result := d.source.Enrich(ctx, keys)
	if errors.Is(result.Err, enrich.ErrSourceUnavailable) {
		return report, result.Err
	}
	if result.Err != nil {
		d.logger.Error("attribute source stopped early",
			"completed", result.Completed(), "requested", result.Requested, "err", result.Err)
	}

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, keys, result); err != nil {
			d.logger.Error("failed to record result", "err", err)
		}
	}

	pairs, err := Reconcile(ids, result.Attributes, d.policy)
	if err != nil {
		return report, err
	}
	if len(pairs) < len(ids) {
		d.logger.Warn("customers without a result are left empty",
			"dropped", len(ids)-len(pairs), "policy", d.policy)
	}

	if err := d.writePairs(ctx, pairs); err != nil {
		return report, err
	}

	report.Enriched = len(pairs)
	report.Partial = len(pairs) < len(ids)
	for _, p := range pairs {
		if p.Industry.IsKnown() {
			report.Known++
		} else {
			report.Unknown++
		}
	}
	d.logger.Info("enrichment pass complete",
		"customers", report.Customers, "enriched", report.Enriched,
		"known", report.Known, "unknown", report.Unknown, "partial", report.Partial)
	return report, nil
}

func (d *Driver) readCustomers(ctx context.Context) ([]core.Customer, error) {
	store, err := d.connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	defer store.Close()

	customers, err := store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	d.logger.Info("customers loaded", "count", len(customers))
	return customers, nil
}

func (d *Driver) writePairs(ctx context.Context, pairs []core.EnrichedPair) error {
	store, err := d.connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	defer store.Close()

	if d.atomicWrite {
		if err := store.ReplaceAttributes(ctx, pairs); err != nil {
			return fmt.Errorf("replace attributes: %w", err)
		}
		return nil
	}

	if err := store.StageAttributes(ctx, pairs); err != nil {
		return fmt.Errorf("stage attributes: %w", err)
	}
	if err := store.MergeAttributes(ctx); err != nil {
		return fmt.Errorf("merge attributes: %w", err)
	}
	return nil
}
