// Package sqlstore answers store queries from a relational database reached
// through database/sql: SQLite by default, Postgres for postgres:// URLs.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sigesalud/dashboard/internal/platform/db"
	"github.com/sigesalud/dashboard/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store is the relational backend.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  zerolog.Logger
}

// New wraps an open database.
func New(conn *sql.DB, d Dialect, logger zerolog.Logger) *Store {
	return &Store{db: conn, dialect: d, logger: logger}
}

// Options configures Open.
type Options struct {
	DSN      string
	MaxConns int
	MinConns int
	Migrate  bool
}

// Open returns an opener that connects and, when asked, applies the embedded
// schema migrations before the first query.
func Open(opts Options, logger zerolog.Logger) store.Opener {
	return func(ctx context.Context) (store.Store, error) {
		d := DialectFor(opts.DSN)
		conn, err := db.Open(ctx, d.DriverName(), opts.DSN, opts.MaxConns, opts.MinConns)
		if err != nil {
			return nil, err
		}
		if opts.Migrate {
			n, err := NewMigrator(conn).Up(ctx)
			if err != nil {
				conn.Close()
				return nil, err
			}
			if n > 0 {
				logger.Info().Int("applied", n).Msg("schema migrations applied")
			}
		}
		return New(conn, d, logger), nil
	}
}

// DB exposes the connection pool for health reporting.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports the SQL flavour in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// Backend implements store.Describer.
func (s *Store) Backend() string { return "sql/" + s.dialect.String() }

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Query implements store.Store. Result values are converted to the storage
// class of their output column so both dialects return the same types.
func (s *Store) Query(ctx context.Context, q store.Query) ([]store.Row, error) {
	text, args, err := Build(s.dialect, q)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("sql", text).Int("args", len(args)).Msg("query")

	rows, err := s.db.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.From.Entity, err)
	}
	defer rows.Close()

	outputs := q.Outputs()
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	if len(cols) != len(outputs) {
		return nil, fmt.Errorf("query %s: expected %d columns, got %d", q.From.Entity, len(outputs), len(cols))
	}

	var out []store.Row
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.From.Entity, err)
		}
		row := make(store.Row, len(outputs))
		for i, o := range outputs {
			row[o.Name] = store.Coerce(o.Kind, values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", q.From.Entity, err)
	}
	return out, nil
}
