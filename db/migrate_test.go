package db

import (
	"path/filepath"
	"testing"
)

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	conn, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("failed to open db for verification: %v", err)
	}
	defer conn.Close()

	var count int
	err = conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
	).Scan(&count)
	if err != nil {
		t.Fatalf("sqlite_master query failed: %v", err)
	}
	return count == 1
}

func TestMigrateUpFromPath_CreatesRenders(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	if err := MigrateUpFromPath(dbPath); err != nil {
		t.Fatalf("MigrateUpFromPath() error = %v", err)
	}
	if !tableExists(t, dbPath, "renders") {
		t.Error("renders table was not created")
	}
	if !tableExists(t, dbPath, migrationsTable) {
		t.Errorf("%s table was not created", migrationsTable)
	}
}

func TestMigrateUpFromPath_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 3; i++ {
		if err := MigrateUpFromPath(dbPath); err != nil {
			t.Fatalf("run %d: MigrateUpFromPath() error = %v", i, err)
		}
	}

	version, dirty, err := MigrationVersion(dbPath)
	if err != nil {
		t.Fatalf("MigrationVersion() error = %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("version = %d dirty = %v, want 1 false", version, dirty)
	}
}

func TestMigrationVersion_Fresh(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fresh.db")

	version, dirty, err := MigrationVersion(dbPath)
	if err != nil {
		t.Fatalf("MigrationVersion() error = %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("version = %d dirty = %v, want 0 false", version, dirty)
	}
}

func TestMigrateDownFromPath_DropsRenders(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	if err := MigrateUpFromPath(dbPath); err != nil {
		t.Fatal(err)
	}
	if err := MigrateDownFromPath(dbPath, -1); err != nil {
		t.Fatalf("MigrateDownFromPath() error = %v", err)
	}
	if tableExists(t, dbPath, "renders") {
		t.Error("renders table still exists after rollback")
	}

	// Nothing left to roll back.
	if err := MigrateDownFromPath(dbPath, -1); err != nil {
		t.Errorf("second rollback error = %v, want nil", err)
	}
}

func TestMigrateUp_NilConnection(t *testing.T) {
	if err := MigrateUp(nil); err == nil {
		t.Error("expected error for nil connection")
	}
}
