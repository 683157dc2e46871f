package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/provider"
	"golang.org/x/time/rate"
)

// Result is the outcome of an enrichment pass.
type Result struct {
	// Attributes holds one entry per resolved key, in key order.
	// Shorter than Requested when the pass stopped early.
	Attributes []core.Attribute

	// Requested is the number of keys the pass was asked to resolve.
	Requested int

	// Err is the failure that stopped the pass, or nil.
	Err error
}

// Complete reports whether every requested key was resolved.
func (r Result) Complete() bool {
	return r.Err == nil && len(r.Attributes) == r.Requested
}

// Completed returns the number of resolved keys.
func (r Result) Completed() int {
	return len(r.Attributes)
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Enricher resolves lookup keys to industries one batch at a time.
type Enricher struct {
	lookup   provider.BulkLookup
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewEnricher creates a new enricher.
// progress: where to write progress output (typically os.Stderr); nil discards it.
func NewEnricher(lookup provider.BulkLookup, config *Config, progress io.Writer, opts ...Option) (*Enricher, error) {
	if lookup == nil {
		return nil, ErrNoLookup
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	e := &Enricher{
		lookup:   lookup,
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "enricher")
	return e, nil
}

func (e *Enricher) limiter() *rate.Limiter {
	if e.config.PaceInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(e.config.PaceInterval), 1)
}

// Enrich resolves keys in order. Each provider position maps to Known(industry)
// when the organization exists with a non-empty industry and to Unknown otherwise.
// A provider answer shorter than its batch is padded with Unknown; extra entries
// are ignored.
//
// Enrich never returns a longer list than keys. On the first failed batch it
// stops and returns what it has so far with Err set.
func (e *Enricher) Enrich(ctx context.Context, keys []core.Domain) Result {
	result := Result{
		Attributes: make([]core.Attribute, 0, len(keys)),
		Requested:  len(keys),
	}
	if len(keys) == 0 {
		return result
	}

	batches := BatchCount(len(keys), e.config.BatchSize)
	e.logger.Info("fetching industries", "keys", len(keys), "batches", batches)

	tracker := NewProgressTracker(e.progress, len(keys), 1)
	tracker.Start()

	pacer := e.limiter()
	batchNum := 0
	for batch := range Chunk(keys, e.config.BatchSize) {
		batchNum++
		if err := pacer.Wait(ctx); err != nil {
			return e.abort(result, tracker, fmt.Errorf("batch %d/%d: %w", batchNum, batches, err))
		}

		var orgs []*provider.Organization
		err := RetryWithBackoff(ctx, func() error {
			var err error
			orgs, err = e.lookup.LookupOrganizations(ctx, batch)
			return err
		}, e.config.MaxAttempts, e.config.RetryDelay)
		if err != nil {
			return e.abort(result, tracker, fmt.Errorf("batch %d/%d: %w", batchNum, batches, err))
		}

		if len(orgs) != len(batch) {
			e.logger.Warn("provider answered with a different count",
				"batch", batchNum, "sent", len(batch), "received", len(orgs))
		}
		for i := range batch {
			result.Attributes = append(result.Attributes, attributeAt(orgs, i))
		}

		tracker.Update(len(result.Attributes))
		e.logger.Info("fetched industries", "processed", len(result.Attributes), "total", len(keys))
	}

	tracker.Finish()
	e.logger.Info("industries fetched", "total", len(keys), "elapsed", tracker.Elapsed())
	return result
}

func (e *Enricher) abort(result Result, tracker *ProgressTracker, err error) Result {
	tracker.Abort()
	result.Err = err
	e.logger.Error("enrichment stopped early",
		"completed", len(result.Attributes), "requested", result.Requested, "err", err)
	return result
}

func attributeAt(orgs []*provider.Organization, i int) core.Attribute {
	if i >= len(orgs) || !orgs[i].HasIndustry() {
		return core.Unknown()
	}
	return core.Known(orgs[i].Industry)
}
