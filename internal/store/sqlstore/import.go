package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/dataset"
)

// Import replaces the content of every table with the dataset in a single
// transaction. It returns the number of rows written per entity.
func Import(ctx context.Context, conn *sql.DB, ds *dataset.Dataset) (map[store.Entity]int, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	entities := store.Entities()
	for i := len(entities) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+quote(string(entities[i]))); err != nil {
			return nil, fmt.Errorf("clear %s: %w", entities[i], err)
		}
	}

	counts := make(map[store.Entity]int, len(entities))
	for _, e := range entities {
		n, err := insertAll(ctx, tx, store.Schema[e], ds.Rows(e))
		if err != nil {
			return nil, err
		}
		counts[e] = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return counts, nil
}

// InsertStatement renders the parameterised INSERT for a table.
func InsertStatement(t store.Table) string {
	names := make([]string, len(t.Columns))
	ph := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = quote(c.Name)
		ph[i] = placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(string(t.Entity)), strings.Join(names, ", "), strings.Join(ph, ", "))
}

func insertAll(ctx context.Context, tx *sql.Tx, t store.Table, rows []store.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, InsertStatement(t))
	if err != nil {
		return 0, fmt.Errorf("prepare insert %s: %w", t.Entity, err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for i, r := range rows {
		for j, c := range t.Columns {
			args[j] = store.Coerce(c.Kind, r[c.Name])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return i, fmt.Errorf("insert %s row %d: %w", t.Entity, i, err)
		}
	}
	return len(rows), nil
}
