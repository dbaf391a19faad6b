package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"), "test-key")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.RunMigrations(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestRunMigrations_Idempotent(t *testing.T) {
	database := openTestDB(t)

	if err := database.RunMigrations(); err != nil {
		t.Fatalf("second run: %v", err)
	}
	v, err := database.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != len(migrations) {
		t.Fatalf("expected version %d, got %d", len(migrations), v)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	boom := errors.New("boom")

	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO services (name, price) VALUES ('x', 1)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM services`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected rollback, found %d rows", n)
	}
}

func TestWithTx_Commits(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO parts (name, price) VALUES ('filtro', 20)`)
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM parts`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, found %d", n)
	}
}
