// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package enrichit

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/enrichit/cache"
	"github.com/poiesic/enrichit/config"
	"github.com/poiesic/enrichit/enrich"
	"github.com/poiesic/enrichit/pipeline"
	"github.com/poiesic/enrichit/provider"
	"github.com/poiesic/enrichit/provider/apollo"
	"github.com/poiesic/enrichit/storage"
	"github.com/poiesic/enrichit/storage/badger"
	"github.com/poiesic/enrichit/storage/postgres"
)

// Mode selects where a pass gets its attributes from.
type Mode int

const (
	// ModeLive queries the provider.
	ModeLive Mode = iota

	// ModeCached reads the text cache file.
	ModeCached

	// ModeReplay reads the capture recorded for the current key set.
	ModeReplay
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeCached:
		return "cached"
	case ModeReplay:
		return "replay"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Runner wires configuration into a ready-to-run pipeline.
type Runner struct {
	config    *config.Config
	mode      Mode
	progress  io.Writer
	connector storage.Connector
	lookup    provider.BulkLookup
	captures  storage.CaptureRepository
	recorder  *pipeline.Recorder
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithMode sets the attribute source. Default is ModeLive.
func WithMode(mode Mode) Option {
	return func(r *Runner) {
		r.mode = mode
	}
}

// WithProgress sets where live progress is printed. Default is no output.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) {
		r.progress = w
	}
}

// WithConnector replaces the Postgres connector built from the config.
func WithConnector(connector storage.Connector) Option {
	return func(r *Runner) {
		r.connector = connector
	}
}

// WithLookup replaces the Apollo client built from the config.
func WithLookup(lookup provider.BulkLookup) Option {
	return func(r *Runner) {
		r.lookup = lookup
	}
}

// New creates a Runner. The capture store is opened when cfg.Capture.Path is set.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.connector == nil {
		connector, err := postgres.NewConnector(cfg.PostgresConfig())
		if err != nil {
			return nil, err
		}
		r.connector = connector
	}

	if cfg.Capture.Path != "" {
		captures, err := badger.NewCaptureRepository(cfg.Capture.Path)
		if err != nil {
			return nil, fmt.Errorf("open capture store: %w", err)
		}
		r.captures = captures
	}
	if r.mode == ModeReplay && r.captures == nil {
		return nil, fmt.Errorf("replay mode: %w", cache.ErrNoCapture)
	}

	if r.mode == ModeLive {
		var recordOpts []pipeline.RecorderOption
		if cfg.Cache.Record {
			recordOpts = append(recordOpts, pipeline.RecordToFile(cfg.Cache.Path))
		}
		if r.captures != nil {
			recordOpts = append(recordOpts, pipeline.RecordToCaptures(r.captures))
		}
		if len(recordOpts) > 0 {
			recorder, err := pipeline.NewRecorder(recordOpts...)
			if err != nil {
				r.Close()
				return nil, err
			}
			r.recorder = recorder
		}
	}

	return r, nil
}

// Close releases the recorder and the capture store.
func (r *Runner) Close() error {
	if r.recorder != nil {
		r.recorder.Release()
	}
	if r.captures != nil {
		if err := r.captures.Close(); err != nil {
			r.logger.Error("error closing capture store", "err", err)
			return err
		}
	}
	return nil
}

// Mode returns the configured attribute source.
func (r *Runner) Mode() Mode {
	return r.mode
}

// CaptureRepository returns the capture store, or nil when none is configured.
func (r *Runner) CaptureRepository() storage.CaptureRepository {
	return r.captures
}

// NewSource builds the attribute source for the configured mode.
func (r *Runner) NewSource() (pipeline.Source, error) {
	switch r.mode {
	case ModeCached:
		return cache.NewFileSource(r.config.Cache.Path), nil
	case ModeReplay:
		return cache.NewCaptureSource(r.captures), nil
	case ModeLive:
		lookup := r.lookup
		if lookup == nil {
			client, err := apollo.NewClient(r.config.ProviderConfig())
			if err != nil {
				return nil, err
			}
			lookup = client
		}
		enricher, err := enrich.NewEnricher(lookup, r.config.EnrichConfig(), r.progress)
		if err != nil {
			return nil, err
		}
		return enricher, nil
	default:
		return nil, fmt.Errorf("unknown mode %v", r.mode)
	}
}

// NewDriver builds a driver for one pass.
func (r *Runner) NewDriver(opts ...pipeline.Option) (*pipeline.Driver, error) {
	source, err := r.NewSource()
	if err != nil {
		return nil, err
	}

	driverOpts := []pipeline.Option{
		pipeline.WithAtomicWrite(r.config.Postgres.Atomic),
	}
	if r.config.Postgres.Strict {
		driverOpts = append(driverOpts, pipeline.WithMismatchPolicy(pipeline.RejectOnMismatch))
	}
	if r.recorder != nil {
		driverOpts = append(driverOpts, pipeline.WithRecorder(r.recorder))
	}
	return pipeline.NewDriver(r.connector, source, append(driverOpts, opts...)...)
}
