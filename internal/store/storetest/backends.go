package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sigesalud/dashboard/internal/platform/db"
	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/dataset"
	"github.com/sigesalud/dashboard/internal/store/memstore"
	"github.com/sigesalud/dashboard/internal/store/sqlstore"
)

// Backend is a named store under test.
type Backend struct {
	Name  string
	Store store.Store
}

var seq atomic.Int64

// SQLite migrates a private in-memory SQLite database, imports ds into it and
// returns the relational store. The database is closed when the test ends.
func SQLite(t testing.TB, ds *dataset.Dataset) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	conn, err := db.Open(ctx, sqlstore.SQLite.DriverName(), dsn, 4, 1)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := sqlstore.NewMigrator(conn).Up(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := sqlstore.Import(ctx, conn, ds); err != nil {
		t.Fatalf("import: %v", err)
	}
	return sqlstore.New(conn, sqlstore.SQLite, zerolog.Nop())
}

// Backends returns every backend loaded with ds: memory first, then SQLite.
func Backends(t testing.TB, ds *dataset.Dataset) []Backend {
	t.Helper()
	return []Backend{
		{Name: "memory", Store: memstore.New(ds)},
		{Name: "sqlite", Store: SQLite(t, ds)},
	}
}

// Each runs fn as a subtest against every backend loaded with a fresh copy of
// the fixture.
func Each(t *testing.T, fn func(t *testing.T, st store.Store)) {
	t.Helper()
	for _, b := range Backends(t, Dataset()) {
		b := b
		t.Run(b.Name, func(t *testing.T) {
			fn(t, b.Store)
		})
	}
}
