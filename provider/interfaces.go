package provider

import (
	"context"

	"github.com/poiesic/enrichit/core"
)

// BulkLookup resolves batches of domains to organizations.
// Implementations must be safe for sequential reuse across batches.
type BulkLookup interface {
	// LookupOrganizations performs one provider call for the given domains.
	// The returned slice is positional: entry i belongs to domains[i] and is nil
	// when the provider has no organization for that domain. Implementations may
	// return fewer entries than domains; callers treat missing positions as nil.
	// Returns an error for transport failures, non-success statuses and
	// responses that do not carry an organizations list.
	LookupOrganizations(ctx context.Context, domains []core.Domain) ([]*Organization, error)
}
