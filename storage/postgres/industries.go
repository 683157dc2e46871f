package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/poiesic/enrichit/core"
)

// StageAttributes replaces the staging table with pairs.
func (s *Store) StageAttributes(ctx context.Context, pairs []core.EnrichedPair) error {
	return s.withTx(ctx, func(tx execer) error {
		return s.stage(ctx, tx, pairs)
	})
}

// MergeAttributes rebuilds the customer attribute column from the staging table.
func (s *Store) MergeAttributes(ctx context.Context) error {
	return s.withTx(ctx, func(tx execer) error {
		return s.merge(ctx, tx)
	})
}

// ReplaceAttributes stages and merges in a single transaction.
func (s *Store) ReplaceAttributes(ctx context.Context, pairs []core.EnrichedPair) error {
	return s.withTx(ctx, func(tx execer) error {
		if err := s.stage(ctx, tx, pairs); err != nil {
			return err
		}
		return s.merge(ctx, tx)
	})
}

func (s *Store) stage(ctx context.Context, tx execer, pairs []core.EnrichedPair) error {
	table := s.config.industriesIdent()
	attr := quote(s.config.AttributeColumn)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table.Sanitize())); err != nil {
		return fmt.Errorf("drop staging table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id bigint NOT NULL PRIMARY KEY, %s text)", table.Sanitize(), attr)
	if _, err := tx.Exec(ctx, create); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}
	s.logger.Info("staging table created", "table", table.Sanitize())

	n, err := tx.CopyFrom(ctx, table, []string{"id", s.config.AttributeColumn}, pgx.CopyFromRows(stagingRows(pairs)))
	if err != nil {
		return fmt.Errorf("load staging table: %w", err)
	}
	s.logger.Info("industries staged", "rows", n)
	return nil
}

func (s *Store) merge(ctx context.Context, tx execer) error {
	customers := s.config.customersIdent().Sanitize()
	industries := s.config.industriesIdent().Sanitize()
	attr := quote(s.config.AttributeColumn)

	if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER TABLE %s DROP COLUMN IF EXISTS %s", customers, attr)); err != nil {
		return fmt.Errorf("drop attribute column: %w", err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s text", customers, attr)); err != nil {
		return fmt.Errorf("add attribute column: %w", err)
	}

	sql, args, err := s.queryBuilder.
		Update(customers).
		Set(attr, squirrel.Expr(industries+"."+attr)).
		From(industries).
		Where(customers + ".id = " + industries + ".id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build merge query: %w", err)
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("merge industries: %w", err)
	}
	s.logger.Info("industries merged into customers", "rows", tag.RowsAffected())
	return nil
}

// stagingRows converts pairs to COPY rows. Unknown attributes become NULL.
func stagingRows(pairs []core.EnrichedPair) [][]any {
	rows := make([][]any, len(pairs))
	for i, p := range pairs {
		rows[i] = []any{int64(p.ID), p.Industry.Ptr()}
	}
	return rows
}
