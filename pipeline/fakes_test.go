package pipeline

import (
	"context"
	"slices"
	"sync"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/storage"
)

// fakeDatabase records what each connection did.
type fakeDatabase struct {
	mu          sync.Mutex
	customers   []core.Customer
	connectErr  error
	connects    int
	closes      int
	staged      []core.EnrichedPair
	merged      bool
	replaced    bool
	StageFunc   func(pairs []core.EnrichedPair) error
	connectFrom int // fail connections numbered >= connectFrom when connectErr set; 0 means all
}

func (f *fakeDatabase) Connect(ctx context.Context) (storage.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connectErr != nil && f.connects >= f.connectFrom {
		return nil, f.connectErr
	}
	return &fakeStore{db: f}, nil
}

type fakeStore struct {
	db *fakeDatabase
}

func (s *fakeStore) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return slices.Clone(s.db.customers), nil
}

func (s *fakeStore) StageAttributes(ctx context.Context, pairs []core.EnrichedPair) error {
	if s.db.StageFunc != nil {
		if err := s.db.StageFunc(pairs); err != nil {
			return err
		}
	}
	s.db.staged = slices.Clone(pairs)
	return nil
}

func (s *fakeStore) MergeAttributes(ctx context.Context) error {
	s.db.merged = true
	return nil
}

func (s *fakeStore) ReplaceAttributes(ctx context.Context, pairs []core.EnrichedPair) error {
	s.db.staged = slices.Clone(pairs)
	s.db.replaced = true
	return nil
}

func (s *fakeStore) Close() error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.closes++
	return nil
}

// merged returns the customer column as it would look after the merge step.
func (f *fakeDatabase) column() map[core.CustomerID]core.Attribute {
	out := make(map[core.CustomerID]core.Attribute, len(f.customers))
	for _, c := range f.customers {
		out[c.ID] = core.Unknown()
	}
	for _, p := range f.staged {
		if _, ok := out[p.ID]; ok {
			out[p.ID] = p.Industry
		}
	}
	return out
}
