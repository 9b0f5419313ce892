package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrateUpRecordsVersions(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	for i := 0; i < 2; i++ {
		if err := MigrateUp(ctx, db); err != nil {
			t.Fatalf("migrate up #%d: %v", i+1, err)
		}
	}
	got, err := AppliedMigrations(ctx, db)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if want := []string{"0001_create_tasks"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !tableExists(t, db, "tasks") {
		t.Fatal("tasks table missing after migrate up")
	}
}

func TestMigrateDownThenUp(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	if err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(ctx, db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if tableExists(t, db, "tasks") {
		t.Fatal("tasks table should be dropped")
	}
	if got, _ := AppliedMigrations(ctx, db); len(got) != 0 {
		t.Fatalf("no versions expected after down, got %v", got)
	}
	if err := MigrateDown(ctx, db); err != nil {
		t.Fatalf("down on an empty schema should be a no-op: %v", err)
	}
	if err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	id, err := repo.CreateTask(ctx, "alice", "after roundtrip", nil)
	if err != nil {
		t.Fatalf("insert after roundtrip: %v", err)
	}
	got, err := repo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("get after roundtrip: %v", err)
	}
	if got.Text != "after roundtrip" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}
