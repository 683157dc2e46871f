package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/enrich"
	"github.com/poiesic/enrichit/storage"
)

// CaptureSource serves attributes from the capture store.
type CaptureSource struct {
	repo   storage.CaptureRepository
	logger *slog.Logger
}

// NewCaptureSource creates a source backed by repo.
func NewCaptureSource(repo storage.CaptureRepository) *CaptureSource {
	return &CaptureSource{
		repo:   repo,
		logger: slog.Default().With("component", "cache-capture"),
	}
}

// Enrich returns the capture recorded for exactly this key set.
// An incomplete capture is returned as a partial result.
func (c *CaptureSource) Enrich(ctx context.Context, keys []core.Domain) enrich.Result {
	result := enrich.Result{Requested: len(keys)}
	fp := core.FingerprintOf(keys)

	capture, err := c.repo.LoadCapture(ctx, fp)
	if errors.Is(err, storage.ErrNotFound) {
		result.Err = fmt.Errorf("%w: %w", enrich.ErrSourceUnavailable, c.explainMissing(ctx))
		return result
	}
	if err != nil {
		result.Err = fmt.Errorf("%w: load capture: %w", enrich.ErrSourceUnavailable, err)
		return result
	}

	attrs := capture.Attributes
	if len(attrs) > len(keys) {
		attrs = attrs[:len(keys)]
	}
	result.Attributes = attrs
	if !capture.Complete {
		result.Err = fmt.Errorf("capture from %s is partial: %d of %d", capture.CapturedAt.Format("2006-01-02 15:04:05"), len(attrs), len(keys))
	}
	c.logger.Info("industries loaded from capture", "captured_at", capture.CapturedAt, "count", len(attrs))
	return result
}

func (c *CaptureSource) explainMissing(ctx context.Context) error {
	latest, err := c.repo.LatestCapture(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNoCapture
	}
	if err != nil {
		return fmt.Errorf("load capture: %w", err)
	}
	return fmt.Errorf("%w: latest capture from %s", ErrStaleCapture, latest.CapturedAt.Format("2006-01-02 15:04:05"))
}
