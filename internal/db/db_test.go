package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	d, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestOpenCreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	d, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = d.Close() }()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestMigrationsApplied(t *testing.T) {
	d := openTestDB(t)

	tables := []string{"schema_migrations", "sessions", "content_types", "disallowed_headers", "rooms", "request_seq"}
	for _, table := range tables {
		var name string
		err := d.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestSeedDataPresent(t *testing.T) {
	d := openTestDB(t)

	var contentTypes int
	if err := d.QueryRow("SELECT COUNT(*) FROM content_types").Scan(&contentTypes); err != nil {
		t.Fatalf("count content_types: %v", err)
	}
	if contentTypes == 0 {
		t.Error("content_types not seeded")
	}

	var hostDenied int
	if err := d.QueryRow("SELECT COUNT(*) FROM disallowed_headers WHERE header_name = 'host'").Scan(&hostDenied); err != nil {
		t.Fatalf("query disallowed_headers: %v", err)
	}
	if hostDenied != 1 {
		t.Error("host not on the seeded denylist")
	}

	var seq int64
	if err := d.QueryRow("SELECT value FROM request_seq WHERE id = 1").Scan(&seq); err != nil {
		t.Fatalf("query request_seq: %v", err)
	}
	if seq != 0 {
		t.Errorf("request_seq starts at %d, want 0", seq)
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	d := openTestDB(t)

	var fkEnabled int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("PRAGMA foreign_keys failed: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("foreign keys not enabled")
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	d, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	d, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer func() { _ = d.Close() }()

	var contentTypes int
	if err := d.QueryRow("SELECT COUNT(*) FROM content_types WHERE type_name = 'json'").Scan(&contentTypes); err != nil {
		t.Fatalf("count content_types: %v", err)
	}
	if contentTypes != 1 {
		t.Errorf("json content type seeded %d times, want 1", contentTypes)
	}
}
