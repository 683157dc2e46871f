package pipeline

import (
	"fmt"

	"github.com/poiesic/enrichit/core"
)

// MismatchPolicy decides what Reconcile does when lengths differ.
type MismatchPolicy int

const (
	// TruncateOnMismatch pairs up to the shorter list and drops the rest.
	TruncateOnMismatch MismatchPolicy = iota

	// RejectOnMismatch fails with ErrLengthMismatch.
	RejectOnMismatch
)

func (p MismatchPolicy) String() string {
	switch p {
	case TruncateOnMismatch:
		return "truncate"
	case RejectOnMismatch:
		return "reject"
	default:
		return fmt.Sprintf("MismatchPolicy(%d)", int(p))
	}
}

// Reconcile pairs ids[i] with attrs[i].
func Reconcile(ids []core.CustomerID, attrs []core.Attribute, policy MismatchPolicy) ([]core.EnrichedPair, error) {
	if len(ids) != len(attrs) && policy == RejectOnMismatch {
		return nil, fmt.Errorf("%w: %d identifiers, %d attributes", ErrLengthMismatch, len(ids), len(attrs))
	}

	n := min(len(ids), len(attrs))
	pairs := make([]core.EnrichedPair, n)
	for i := range n {
		pairs[i] = core.EnrichedPair{ID: ids[i], Industry: attrs[i]}
	}
	return pairs, nil
}
