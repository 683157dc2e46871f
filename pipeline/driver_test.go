package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/enrichit/cache"
	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/enrich"
	"github.com/poiesic/enrichit/provider"
	"github.com/poiesic/enrichit/provider/mock"
	"github.com/poiesic/enrichit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnricher(t *testing.T, lookup provider.BulkLookup) *enrich.Enricher {
	t.Helper()
	cfg := enrich.DefaultConfig()
	cfg.PaceInterval = 0
	e, err := enrich.NewEnricher(lookup, cfg, nil)
	require.NoError(t, err)
	return e
}

func sampleDatabase() *fakeDatabase {
	return &fakeDatabase{
		customers: []core.Customer{
			{ID: 3, Email: "carol@x.com"},
			{ID: 1, Email: "alice@x.com"},
			{ID: 2, Email: "bob@y.com \n"},
		},
	}
}

func TestNewDriver_RequiresCollaborators(t *testing.T) {
	_, err := NewDriver(nil, newTestEnricher(t, mock.NewMockLookup()))
	assert.ErrorIs(t, err, ErrConnectorRequired)

	_, err = NewDriver(sampleDatabase(), nil)
	assert.ErrorIs(t, err, ErrSourceRequired)
}

func TestDriver_EndToEnd(t *testing.T) {
	db := sampleDatabase()
	lookup := mock.NewMockLookup().WithIndustry("x.com", "Tech")

	driver, err := NewDriver(db, newTestEnricher(t, lookup))
	require.NoError(t, err)

	report, err := driver.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]core.Domain{{"x.com", "y.com", "x.com"}}, lookup.Batches(), "keys sorted by id, one batch")
	assert.Equal(t, []core.EnrichedPair{
		{ID: 1, Industry: core.Known("Tech")},
		{ID: 2, Industry: core.Unknown()},
		{ID: 3, Industry: core.Known("Tech")},
	}, db.staged)
	assert.True(t, db.merged)
	assert.False(t, db.replaced)
	assert.Equal(t, map[core.CustomerID]core.Attribute{
		1: core.Known("Tech"),
		2: core.Unknown(),
		3: core.Known("Tech"),
	}, db.column())

	assert.Equal(t, 2, db.connects, "one connection per phase")
	assert.Equal(t, 2, db.closes)
	assert.Equal(t, &Report{Customers: 3, Requested: 3, Enriched: 3, Known: 2, Unknown: 1}, report)
}

func TestDriver_EmptyCustomerTable(t *testing.T) {
	db := &fakeDatabase{}
	lookup := mock.NewMockLookup()

	driver, err := NewDriver(db, newTestEnricher(t, lookup))
	require.NoError(t, err)

	report, err := driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, lookup.CallCount())
	assert.Empty(t, db.staged)
	assert.True(t, db.merged, "the column is still rebuilt")
	assert.False(t, report.Partial)
}

func TestDriver_StorageUnavailable(t *testing.T) {
	db := sampleDatabase()
	db.connectErr = errors.New("connection refused")
	lookup := mock.NewMockLookup()

	driver, err := NewDriver(db, newTestEnricher(t, lookup))
	require.NoError(t, err)

	_, err = driver.Run(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, 0, lookup.CallCount(), "nothing fetched when the store is down")
}

func TestDriver_StorageLostBeforeWrite(t *testing.T) {
	db := sampleDatabase()
	db.connectErr = errors.New("connection refused")
	db.connectFrom = 2

	driver, err := NewDriver(db, newTestEnricher(t, mock.NewMockLookup()))
	require.NoError(t, err)

	_, err = driver.Run(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Nil(t, db.staged)
}

func TestDriver_PartialResultIsTruncated(t *testing.T) {
	db := &fakeDatabase{}
	for i := 1; i <= 15; i++ {
		db.customers = append(db.customers, core.Customer{ID: core.CustomerID(i), Email: "user@x.com"})
	}
	calls := 0
	lookup := mock.NewMockLookup().WithLookupFunc(
		func(ctx context.Context, d []core.Domain) ([]*provider.Organization, error) {
			calls++
			if calls > 1 {
				return nil, provider.ErrUnexpectedStatus
			}
			orgs := make([]*provider.Organization, len(d))
			for i := range orgs {
				orgs[i] = &provider.Organization{Industry: "Tech"}
			}
			return orgs, nil
		})

	driver, err := NewDriver(db, newTestEnricher(t, lookup))
	require.NoError(t, err)

	report, err := driver.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, db.staged, 10)
	assert.True(t, report.Partial)
	assert.Equal(t, 10, report.Enriched)
	assert.Equal(t, core.Unknown(), db.column()[15], "customers past the failure end up empty")
}

func TestDriver_StrictRejectsPartialResult(t *testing.T) {
	db := sampleDatabase()
	lookup := mock.NewMockLookup().WithLookupFunc(
		func(ctx context.Context, d []core.Domain) ([]*provider.Organization, error) {
			return nil, provider.ErrMalformedResponse
		})

	driver, err := NewDriver(db, newTestEnricher(t, lookup), WithMismatchPolicy(RejectOnMismatch))
	require.NoError(t, err)

	_, err = driver.Run(context.Background())
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Equal(t, 1, db.connects, "write phase never starts")
	assert.Nil(t, db.staged)
}

func TestDriver_AtomicWrite(t *testing.T) {
	db := sampleDatabase()

	driver, err := NewDriver(db, newTestEnricher(t, mock.NewMockLookup()), WithAtomicWrite(true))
	require.NoError(t, err)

	_, err = driver.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, db.replaced)
	assert.False(t, db.merged)
	assert.Len(t, db.staged, 3)
}

func TestDriver_StageFailure(t *testing.T) {
	db := sampleDatabase()
	db.StageFunc = func([]core.EnrichedPair) error { return assert.AnError }

	driver, err := NewDriver(db, newTestEnricher(t, mock.NewMockLookup()))
	require.NoError(t, err)

	_, err = driver.Run(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, db.merged, "merge skipped after failed staging")
	assert.Equal(t, 2, db.closes)
}

func TestDriver_CachedMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "industries.cached")
	require.NoError(t, os.WriteFile(path, []byte("Tech\nNone\nTech\n"), 0644))
	db := sampleDatabase()

	driver, err := NewDriver(db, cache.NewFileSource(path))
	require.NoError(t, err)

	report, err := driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.EnrichedPair{
		{ID: 1, Industry: core.Known("Tech")},
		{ID: 2, Industry: core.Unknown()},
		{ID: 3, Industry: core.Known("Tech")},
	}, db.staged)
	assert.Equal(t, 2, report.Known)
}

func TestDriver_MissingCacheAbortsBeforeWrite(t *testing.T) {
	db := sampleDatabase()

	driver, err := NewDriver(db, cache.NewFileSource(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)

	_, err = driver.Run(context.Background())
	assert.ErrorIs(t, err, enrich.ErrSourceUnavailable)
	assert.Equal(t, 1, db.connects)
	assert.False(t, db.merged)
}

func TestDriver_RecordsLiveResults(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "industries.cached")
	captures, err := badger.NewMemoryCaptureRepository()
	require.NoError(t, err)
	defer captures.Close()

	recorder, err := NewRecorder(RecordToFile(cachePath), RecordToCaptures(captures))
	require.NoError(t, err)
	defer recorder.Release()

	db := sampleDatabase()
	lookup := mock.NewMockLookup().WithIndustry("x.com", "Tech")
	driver, err := NewDriver(db, newTestEnricher(t, lookup), WithRecorder(recorder))
	require.NoError(t, err)

	_, err = driver.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	assert.Equal(t, "Tech\nNone\nTech\n", string(data))

	// A second pass replays the capture without touching the provider.
	replay, err := NewDriver(db, cache.NewCaptureSource(captures))
	require.NoError(t, err)
	db.staged = nil
	_, err = replay.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, db.staged, 3)
	assert.Equal(t, 1, lookup.CallCount())
}

func TestRecorder_PartialSkipsCacheFile(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "industries.cached")
	captures, err := badger.NewMemoryCaptureRepository()
	require.NoError(t, err)
	defer captures.Close()

	recorder, err := NewRecorder(RecordToFile(cachePath), RecordToCaptures(captures))
	require.NoError(t, err)
	defer recorder.Release()

	keys := []core.Domain{"a.com", "b.com"}
	err = recorder.Record(context.Background(), keys, enrich.Result{
		Attributes: []core.Attribute{core.Known("Retail")},
		Requested:  2,
		Err:        provider.ErrUnexpectedStatus,
	})
	require.NoError(t, err)

	_, err = os.Stat(cachePath)
	assert.ErrorIs(t, err, os.ErrNotExist)

	capture, err := captures.LatestCapture(context.Background())
	require.NoError(t, err)
	assert.False(t, capture.Complete)
	assert.Equal(t, core.FingerprintOf(keys), capture.Fingerprint)
}

func TestRecorder_ReportsFailures(t *testing.T) {
	recorder, err := NewRecorder(RecordToFile(filepath.Join(t.TempDir(), "missing-dir", "industries.cached")))
	require.NoError(t, err)
	defer recorder.Release()

	err = recorder.Record(context.Background(), []core.Domain{"a.com"}, enrich.Result{
		Attributes: []core.Attribute{core.Known("Retail")},
		Requested:  1,
	})
	assert.Error(t, err)
}
