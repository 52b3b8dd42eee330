package db_test

import (
	"context"
	"testing"

	dbfs "github.com/garnizeh/keepalive/db"
	"github.com/garnizeh/keepalive/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	// Run Migrate using the embedded migrations included in package db
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Run again to ensure idempotency
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var count int
	row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count < 1 {
		t.Fatalf("expected at least 1 migration recorded, got %d", count)
	}

	// verify the projects table and its indexes exist
	var name string
	r1 := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='projects'`)
	if err := r1.Scan(&name); err != nil {
		t.Fatalf("expected projects table exists: %v", err)
	}

	for _, idx := range []string{"idx_projects_enabled", "idx_projects_name"} {
		r := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx)
		if err := r.Scan(&name); err != nil {
			t.Fatalf("expected index %s exists: %v", idx, err)
		}
	}
}
