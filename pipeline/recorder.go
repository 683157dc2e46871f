package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/enrichit/cache"
	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/enrich"
	"github.com/poiesic/enrichit/storage"
)

// Recorder persists live results so later passes can replay them.
// Targets are written concurrently; Record returns once all have finished.
type Recorder struct {
	cachePath string
	captures  storage.CaptureRepository
	pool      *ants.Pool
	logger    *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// RecordToFile writes complete results to a text cache at path.
func RecordToFile(path string) RecorderOption {
	return func(r *Recorder) {
		r.cachePath = path
	}
}

// RecordToCaptures stores every result, complete or not, in repo.
func RecordToCaptures(repo storage.CaptureRepository) RecorderOption {
	return func(r *Recorder) {
		r.captures = repo
	}
}

// NewRecorder creates a recorder with one worker per target.
func NewRecorder(opts ...RecorderOption) (*Recorder, error) {
	r := &Recorder{
		logger: slog.Default().With("component", "recorder"),
	}
	for _, opt := range opts {
		opt(r)
	}

	pool, err := ants.NewPool(2)
	if err != nil {
		return nil, fmt.Errorf("create recorder pool: %w", err)
	}
	r.pool = pool
	return r, nil
}

// Record persists result for keys to every configured target.
func (r *Recorder) Record(ctx context.Context, keys []core.Domain, result enrich.Result) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	submit := func(name string, fn func() error) {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
		}
	}

	if r.cachePath != "" {
		if result.Complete() {
			submit("cache file", func() error {
				return cache.SaveFile(r.cachePath, result.Attributes)
			})
		} else {
			r.logger.Warn("partial result not written to cache file", "path", r.cachePath,
				"completed", result.Completed(), "requested", result.Requested)
		}
	}

	if r.captures != nil {
		submit("capture", func() error {
			return r.captures.SaveCapture(ctx, &core.Capture{
				Fingerprint: core.FingerprintOf(keys),
				Attributes:  result.Attributes,
				Complete:    result.Complete(),
			})
		})
	}

	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return err
	}
	r.logger.Debug("result recorded", "completed", result.Completed(), "requested", result.Requested)
	return nil
}

// Release releases the worker pool.
// The recorder should not be used after calling Release.
func (r *Recorder) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
