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
package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/storage"
)

// CaptureRepository implements storage.CaptureRepository for BadgerDB.
// Captures are keyed by fingerprint; a separate key points at the latest one.
type CaptureRepository struct {
	backend     *Backend
	ownsBackend bool
}

var _ storage.CaptureRepository = (*CaptureRepository)(nil)

// NewCaptureRepository opens a capture store at path.
// The repository owns the backend and closes it on Close.
func NewCaptureRepository(path string) (storage.CaptureRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture store: %w", err)
	}
	repo := newCaptureRepository(backend)
	repo.ownsBackend = true
	return repo, nil
}

// newCaptureRepository wraps an existing backend without taking ownership.
func newCaptureRepository(backend *Backend) *CaptureRepository {
	return &CaptureRepository{
		backend: backend,
	}
}

// SaveCapture persists a capture and marks it as the latest.
func (r *CaptureRepository) SaveCapture(ctx context.Context, capture *core.Capture) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if capture.CapturedAt.IsZero() {
		capture.CapturedAt = time.Now().UTC()
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCaptureKey(capture.Fingerprint)
		if err := tx.Set(key, storage.MarshalCapture(capture)); err != nil {
			return err
		}
		if err := tx.Set([]byte(captureLatestKey), storage.MarshalFingerprint(capture.Fingerprint)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadCapture retrieves the capture recorded for a fingerprint.
func (r *CaptureRepository) LoadCapture(ctx context.Context, fingerprint core.Fingerprint) (*core.Capture, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var capture *core.Capture
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		capture, err = getCapture(tx, fingerprint)
		return err
	}, false)
	return capture, err
}

// LatestCapture retrieves the most recently saved capture.
func (r *CaptureRepository) LatestCapture(ctx context.Context) (*core.Capture, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var capture *core.Capture
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(captureLatestKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var fp core.Fingerprint
		err = item.Value(func(val []byte) error {
			var unmarshalErr error
			fp, unmarshalErr = storage.UnmarshalFingerprint(val)
			return unmarshalErr
		})
		if err != nil {
			return err
		}

		capture, err = getCapture(tx, fp)
		return err
	}, false)
	return capture, err
}

// Close releases the backend when the repository owns it.
func (r *CaptureRepository) Close() error {
	if r.ownsBackend && !r.backend.IsClosed() {
		return r.backend.Close()
	}
	return nil
}

func getCapture(tx *badger.Txn, fp core.Fingerprint) (*core.Capture, error) {
	item, err := tx.Get(makeCaptureKey(fp))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var capture *core.Capture
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		capture, unmarshalErr = storage.UnmarshalCapture(val)
		return unmarshalErr
	})
	return capture, err
}
