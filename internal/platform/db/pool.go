package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects through a registered database/sql driver ("sqlite3" or "pgx"),
// sizes the pool and verifies the connection.
func Open(ctx context.Context, driver, dsn string, maxConns, minConns int) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}
	if minConns > 0 {
		conn.SetMaxIdleConns(minConns)
	}
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return conn, nil
}
