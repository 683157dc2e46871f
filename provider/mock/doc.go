// Package mock provides a test double for provider.BulkLookup.
//
// MockLookup records every batch it receives and lets tests inject behavior
// through a function field:
//
//	lookup := mock.NewMockLookup().
//	    WithLookupFunc(func(ctx context.Context, domains []core.Domain) ([]*provider.Organization, error) {
//	        return nil, errors.New("provider down")
//	    })
//
// Without a function the mock answers from its Industries map: a domain that
// maps to an industry yields an organization carrying it, anything else yields
// nil, as the real provider does for unknown domains.
package mock
