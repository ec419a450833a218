package sqlstore

import (
	"database/sql"
	"embed"
	"io/fs"

	"github.com/sigesalud/dashboard/internal/platform/db"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewMigrator returns a migrator over the embedded schema.
func NewMigrator(conn *sql.DB) *db.Migrator {
	return db.NewMigrator(conn, Migrations())
}
