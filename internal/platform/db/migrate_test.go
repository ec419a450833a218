package db

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"
)

func memoryDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
}

func TestLoadMigrations(t *testing.T) {
	files := fstest.MapFS{
		"001_core.sql":    {Data: []byte("CREATE TABLE regions (region_id TEXT PRIMARY KEY);")},
		"002_geo.sql":     {Data: []byte("CREATE TABLE provinces (province_id TEXT PRIMARY KEY);")},
		"003_workers.sql": {Data: []byte("CREATE TABLE health_workers (worker_id TEXT PRIMARY KEY);")},
	}

	migrator := NewMigrator(nil, files)
	migrations, err := migrator.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 {
		t.Errorf("expected version 1, got %d", migrations[0].Version)
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("expected name 001_core.sql, got %s", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE regions (region_id TEXT PRIMARY KEY);" {
		t.Errorf("unexpected SQL content: %s", migrations[0].SQL)
	}
	if migrations[2].Version != 3 {
		t.Errorf("expected version 3, got %d", migrations[2].Version)
	}
}

func TestLoadMigrations_SortOrder(t *testing.T) {
	files := fstest.MapFS{
		"010_tables.sql": {Data: []byte("SELECT 10;")},
		"002_second.sql": {Data: []byte("SELECT 2;")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"005_middle.sql": {Data: []byte("SELECT 5;")},
	}

	migrations, err := NewMigrator(nil, files).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	expectedVersions := []int{1, 2, 5, 10}
	if len(migrations) != len(expectedVersions) {
		t.Fatalf("expected %d migrations, got %d", len(expectedVersions), len(migrations))
	}
	for i, expected := range expectedVersions {
		if migrations[i].Version != expected {
			t.Errorf("migration[%d]: expected version %d, got %d", i, expected, migrations[i].Version)
		}
	}
}

func TestLoadMigrations_InvalidFilename(t *testing.T) {
	files := fstest.MapFS{
		"001_valid.sql":      {Data: []byte("SELECT 1;")},
		"readme.sql":         {Data: []byte("-- this has no version prefix")},
		"notes.txt":          {Data: []byte("not a sql file")},
		"abc_invalid.sql":    {Data: []byte("-- non-numeric prefix")},
		"002_also_valid.sql": {Data: []byte("SELECT 2;")},
	}

	migrations, err := NewMigrator(nil, files).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 valid migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("unexpected versions %d, %d", migrations[0].Version, migrations[1].Version)
	}
}

func TestLoadMigrations_Empty(t *testing.T) {
	migrations, err := NewMigrator(nil, fstest.MapFS{}).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("expected 0 migrations, got %d", len(migrations))
	}
}

func TestMigrator_UpAndStatus(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, "sqlite3", memoryDSN(t), 4, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	files := fstest.MapFS{
		"001_regions.sql":   {Data: []byte("CREATE TABLE regions (region_id TEXT PRIMARY KEY, name TEXT);")},
		"002_provinces.sql": {Data: []byte("CREATE TABLE provinces (province_id TEXT PRIMARY KEY, region TEXT);")},
	}
	m := NewMigrator(conn, files)

	n, err := m.UpTo(ctx, 1)
	if err != nil {
		t.Fatalf("UpTo(1): %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 applied migration, got %d", n)
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil {
		t.Error("expected migration 001 to be applied with a timestamp")
	}
	if statuses[1].Applied || statuses[1].AppliedAt != nil {
		t.Error("expected migration 002 to be pending")
	}

	n, err = m.Up(ctx)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 newly applied migration, got %d", n)
	}

	n, err = m.Up(ctx)
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if n != 0 {
		t.Errorf("expected Up to be idempotent, applied %d", n)
	}

	if _, err := conn.ExecContext(ctx, "INSERT INTO provinces (province_id, region) VALUES ('LITORAL', 'CONTINENTAL')"); err != nil {
		t.Errorf("migrated table not usable: %v", err)
	}
}

func TestMigrator_FailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, "sqlite3", memoryDSN(t), 1, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	files := fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE regions (region_id TEXT PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE;")},
	}
	m := NewMigrator(conn, files)

	n, err := m.Up(ctx)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if n != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", n)
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if statuses[1].Applied {
		t.Error("broken migration must not be recorded")
	}
}
