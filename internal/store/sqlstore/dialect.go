package sqlstore

import (
	"fmt"
	"strings"

	"github.com/sigesalud/dashboard/internal/store"
)

// Dialect selects the SQL flavour of the connected engine.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DialectFor picks the dialect of a connection string.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return Postgres
	}
	return SQLite
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite3"
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// collate returns the clause that makes text comparisons bytewise. SQLite's
// default BINARY collation already is.
func (d Dialect) collate(k store.Kind) string {
	if d == Postgres && k == store.Text {
		return ` COLLATE "C"`
	}
	return ""
}

// window renders LIMIT/OFFSET. SQLite needs a LIMIT before OFFSET.
func (d Dialect) window(limit, offset int) string {
	var sb strings.Builder
	switch {
	case limit > 0:
		fmt.Fprintf(&sb, " LIMIT %d", limit)
	case offset > 0 && d == SQLite:
		sb.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", offset)
	}
	return sb.String()
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
