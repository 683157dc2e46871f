package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/poiesic/enrichit/core"
)

// ListCustomers returns every (id, email) row ordered by id.
// A NULL email is returned as the empty string.
func (s *Store) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	sql, args, err := s.queryBuilder.
		Select("id", quote(s.config.EmailColumn)).
		From(s.config.customersIdent().Sanitize()).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customer query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}

	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Customer, error) {
		var (
			id    int64
			email *string
		)
		if err := row.Scan(&id, &email); err != nil {
			return core.Customer{}, err
		}
		c := core.Customer{ID: core.CustomerID(id)}
		if email != nil {
			c.Email = *email
		}
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("read customers: %w", err)
	}

	s.logger.Debug("customers loaded", "count", len(customers))
	return customers, nil
}

// CreateCustomersTable creates the customer table when missing.
// Used by development tooling; the pass itself never creates it.
func (s *Store) CreateCustomersTable(ctx context.Context) error {
	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id bigint NOT NULL PRIMARY KEY, %s text)",
		s.config.customersIdent().Sanitize(), quote(s.config.EmailColumn))
	if _, err := s.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}
	return nil
}

// InsertCustomers bulk-loads customers with COPY.
func (s *Store) InsertCustomers(ctx context.Context, customers []core.Customer) (int64, error) {
	n, err := s.db.CopyFrom(ctx,
		s.config.customersIdent(),
		[]string{"id", s.config.EmailColumn},
		pgx.CopyFromSlice(len(customers), func(i int) ([]any, error) {
			return []any{int64(customers[i].ID), customers[i].Email}, nil
		}),
	)
	if err != nil {
		return n, fmt.Errorf("insert customers: %w", err)
	}
	return n, nil
}
