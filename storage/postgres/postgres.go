package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/poiesic/enrichit/storage"
)

// pool is the subset of *pgxpool.Pool the Store uses.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// execer is satisfied by both pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// NewQueryBuilder returns a squirrel builder using PostgreSQL placeholders.
func NewQueryBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Store is one connection to the customer database.
type Store struct {
	db           pool
	config       *Config
	queryBuilder squirrel.StatementBuilderType
	logger       *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Connector opens Stores against a configured database.
type Connector struct {
	config *Config
}

// NewConnector validates config and returns a connector.
//
// Returns storage.Connector interface (not *Connector) so the pipeline
// does not depend on PostgreSQL.
func NewConnector(config *Config) (storage.Connector, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Connector{config: config}, nil
}

// Connect opens a new single-connection Store.
func (c *Connector) Connect(ctx context.Context) (storage.Store, error) {
	return Open(ctx, c.config)
}

// Open creates a single-connection pool and pings it.
func Open(ctx context.Context, config *Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse connection string: %w", storage.ErrConnectionFailed, err)
	}
	cfg.MaxConns = 1

	db, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create connection pool: %w", storage.ErrConnectionFailed, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", storage.ErrConnectionFailed, err)
	}

	store := newStore(db, config)
	store.logger.Info("connection to PostgreSQL established", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
	return store, nil
}

func newStore(db pool, config *Config) *Store {
	return &Store{
		db:           db,
		config:       config,
		queryBuilder: NewQueryBuilder(),
		logger:       slog.Default().With("component", "postgres-store"),
	}
}

// Close releases the connection.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx execer) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", storage.ErrTransactionFailed, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", storage.ErrTransactionFailed, err)
	}
	return nil
}
