package enrich

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/provider"
	"github.com/poiesic/enrichit/provider/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.PaceInterval = 0
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func domains(n int) []core.Domain {
	out := make([]core.Domain, n)
	for i := range out {
		out[i] = core.Domain("d" + string(rune('a'+i%26)) + ".com")
	}
	return out
}

func TestNewEnricher(t *testing.T) {
	_, err := NewEnricher(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoLookup)

	cfg := testConfig()
	cfg.MaxAttempts = 0
	_, err = NewEnricher(mock.NewMockLookup(), cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	cfg = testConfig()
	cfg.BatchSize = 50
	e, err := NewEnricher(mock.NewMockLookup(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, provider.MaxBatchSize, e.config.BatchSize, "batch size clamped to provider limit")
}

func TestEnrich_EmptyInput(t *testing.T) {
	lookup := mock.NewMockLookup()
	e, err := NewEnricher(lookup, testConfig(), nil)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), nil)

	assert.True(t, result.Complete())
	assert.Empty(t, result.Attributes)
	assert.Equal(t, 0, lookup.CallCount(), "no provider calls for empty input")
}

func TestEnrich_PreservesOrderAcrossBatches(t *testing.T) {
	keys := domains(23)
	lookup := mock.NewMockLookup()
	for i, k := range keys {
		if i%3 != 0 {
			lookup.WithIndustry(k, "industry-"+string(k))
		}
	}

	var progress bytes.Buffer
	e, err := NewEnricher(lookup, testConfig(), &progress)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), keys)

	require.True(t, result.Complete())
	require.Len(t, result.Attributes, len(keys))
	for i, k := range keys {
		v, known := result.Attributes[i].Value()
		if i%3 == 0 {
			assert.False(t, known, "position %d", i)
		} else {
			assert.True(t, known, "position %d", i)
			assert.Equal(t, "industry-"+string(k), v)
		}
	}

	batches := lookup.Batches()
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 10)
	assert.Len(t, batches[2], 3)
	assert.Contains(t, progress.String(), "23/23")
}

func TestEnrich_DuplicateKeysLookedUpIndependently(t *testing.T) {
	lookup := mock.NewMockLookup().WithIndustry("x.com", "Tech")
	e, err := NewEnricher(lookup, testConfig(), nil)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), []core.Domain{"x.com", "y.com", "x.com"})

	require.True(t, result.Complete())
	assert.Equal(t, []core.Attribute{core.Known("Tech"), core.Unknown(), core.Known("Tech")}, result.Attributes)
	assert.Equal(t, [][]core.Domain{{"x.com", "y.com", "x.com"}}, lookup.Batches())
}

func TestEnrich_NullAndEmptyIndustryMapToUnknown(t *testing.T) {
	lookup := mock.NewMockLookup().WithLookupFunc(
		func(ctx context.Context, d []core.Domain) ([]*provider.Organization, error) {
			return []*provider.Organization{
				nil,
				{Name: "NoIndustry", Industry: ""},
				{Name: "Acme", Industry: "Retail"},
			}, nil
		})
	e, err := NewEnricher(lookup, testConfig(), nil)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), []core.Domain{"a.com", "b.com", "c.com"})

	assert.Equal(t, []core.Attribute{core.Unknown(), core.Unknown(), core.Known("Retail")}, result.Attributes)
}

func TestEnrich_ShortAnswerIsPadded(t *testing.T) {
	lookup := mock.NewMockLookup().WithLookupFunc(
		func(ctx context.Context, d []core.Domain) ([]*provider.Organization, error) {
			return []*provider.Organization{{Industry: "Retail"}}, nil
		})
	e, err := NewEnricher(lookup, testConfig(), nil)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), []core.Domain{"a.com", "b.com", "c.com"})

	require.True(t, result.Complete())
	assert.Equal(t, []core.Attribute{core.Known("Retail"), core.Unknown(), core.Unknown()}, result.Attributes)
}

func TestEnrich_LongAnswerIsTrimmed(t *testing.T) {
	lookup := mock.NewMockLookup().WithLookupFunc(
		func(ctx context.Context, d []core.Domain) ([]*provider.Organization, error) {
			return []*provider.Organization{{Industry: "A"}, {Industry: "B"}, {Industry: "C"}}, nil
		})
	e, err := NewEnricher(lookup, testConfig(), nil)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), []core.Domain{"a.com"})

	assert.Equal(t, []core.Attribute{core.Known("A")}, result.Attributes)
}

func TestEnrich_FailureReturnsPartialResult(t *testing.T) {
	keys := domains(25)
	calls := 0
	lookup := mock.NewMockLookup().WithLookupFunc(
		func(ctx context.Context, d []core.Domain) ([]*provider.Organization, error) {
			calls++
			if calls == 2 {
				return nil, provider.ErrUnexpectedStatus
			}
			orgs := make([]*provider.Organization, len(d))
			for i := range orgs {
				orgs[i] = &provider.Organization{Industry: "Tech"}
			}
			return orgs, nil
		})
	e, err := NewEnricher(lookup, testConfig(), nil)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), keys)

	assert.False(t, result.Complete())
	assert.ErrorIs(t, result.Err, provider.ErrUnexpectedStatus)
	assert.Equal(t, 10, result.Completed(), "only the first batch survives")
	assert.Equal(t, 25, result.Requested)
	assert.Equal(t, 2, lookup.CallCount(), "no calls after the failure")
}

func TestEnrich_FirstBatchFailureYieldsEmpty(t *testing.T) {
	lookup := mock.NewMockLookup().WithLookupFunc(
		func(ctx context.Context, d []core.Domain) ([]*provider.Organization, error) {
			return nil, provider.ErrMalformedResponse
		})
	e, err := NewEnricher(lookup, testConfig(), nil)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), domains(5))

	assert.Empty(t, result.Attributes)
	assert.ErrorIs(t, result.Err, provider.ErrMalformedResponse)
}

func TestEnrich_RetriesTransientFailures(t *testing.T) {
	calls := 0
	lookup := mock.NewMockLookup().WithLookupFunc(
		func(ctx context.Context, d []core.Domain) ([]*provider.Organization, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection reset")
			}
			return []*provider.Organization{{Industry: "Tech"}}, nil
		})
	cfg := testConfig()
	cfg.MaxAttempts = 3
	e, err := NewEnricher(lookup, cfg, nil)
	require.NoError(t, err)

	result := e.Enrich(context.Background(), []core.Domain{"a.com"})

	require.True(t, result.Complete())
	assert.Equal(t, 2, calls)
}

func TestEnrich_PacesBatches(t *testing.T) {
	lookup := mock.NewMockLookup()
	cfg := testConfig()
	cfg.BatchSize = 1
	cfg.PaceInterval = 30 * time.Millisecond
	e, err := NewEnricher(lookup, cfg, nil)
	require.NoError(t, err)

	start := time.Now()
	result := e.Enrich(context.Background(), domains(3))
	elapsed := time.Since(start)

	require.True(t, result.Complete())
	assert.GreaterOrEqual(t, elapsed, 55*time.Millisecond, "two waits between three batches")
}

func TestEnrich_CancelledWhilePacing(t *testing.T) {
	lookup := mock.NewMockLookup()
	cfg := testConfig()
	cfg.BatchSize = 1
	cfg.PaceInterval = time.Hour
	e, err := NewEnricher(lookup, cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := e.Enrich(ctx, domains(3))

	assert.Error(t, result.Err)
	assert.Equal(t, 1, result.Completed(), "first batch is not paced")
	assert.Equal(t, 1, lookup.CallCount())
}
