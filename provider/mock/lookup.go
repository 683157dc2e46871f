package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/provider"
)

// MockLookup is a test double for provider.BulkLookup.
type MockLookup struct {
	// LookupFunc is called by LookupOrganizations if set.
	LookupFunc func(ctx context.Context, domains []core.Domain) ([]*provider.Organization, error)

	// Industries answers lookups when LookupFunc is nil.
	Industries map[core.Domain]string

	mu      sync.Mutex
	batches [][]core.Domain
}

// NewMockLookup creates a mock with an empty industry table.
// Note: Returns concrete type so tests can inspect calls.
func NewMockLookup() *MockLookup {
	return &MockLookup{Industries: make(map[core.Domain]string)}
}

// WithLookupFunc sets custom lookup behavior.
func (m *MockLookup) WithLookupFunc(fn func(ctx context.Context, domains []core.Domain) ([]*provider.Organization, error)) *MockLookup {
	m.LookupFunc = fn
	return m
}

// WithIndustry registers an industry for domain.
func (m *MockLookup) WithIndustry(domain core.Domain, industry string) *MockLookup {
	m.Industries[domain] = industry
	return m
}

// LookupOrganizations records the batch and answers it.
func (m *MockLookup) LookupOrganizations(ctx context.Context, domains []core.Domain) ([]*provider.Organization, error) {
	m.mu.Lock()
	m.batches = append(m.batches, slices.Clone(domains))
	m.mu.Unlock()

	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, domains)
	}

	orgs := make([]*provider.Organization, len(domains))
	for i, d := range domains {
		if industry, ok := m.Industries[d]; ok {
			orgs[i] = &provider.Organization{PrimaryDomain: string(d), Industry: industry}
		}
	}
	return orgs, nil
}

// CallCount returns the number of lookups performed.
func (m *MockLookup) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

// Batches returns copies of the batches received, in call order.
func (m *MockLookup) Batches() [][]core.Domain {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]core.Domain, len(m.batches))
	for i, b := range m.batches {
		out[i] = slices.Clone(b)
	}
	return out
}

var _ provider.BulkLookup = (*MockLookup)(nil)
