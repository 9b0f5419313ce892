package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/todolist/internal/datecodec"
	"github.com/sandeepkv93/todolist/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.now
	c.now = c.now.Add(time.Second)
	return out
}

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	clock := &fakeClock{now: parseRFC3339(t, "2026-02-09T12:00:00Z")}
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "todolist-test.db"), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func dueDate(y int, m time.Month, d int) *time.Time {
	out := datecodec.Date(y, m, d)
	return &out
}

func TestInitializeIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	id, err := repo.CreateTask(ctx, "alice", "keep me", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := repo.Initialize(ctx); err != nil {
			t.Fatalf("initialize #%d: %v", i, err)
		}
	}
	got, err := repo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("task lost after re-initialize: %v", err)
	}
	if got.Text != "keep me" {
		t.Fatalf("unexpected task after re-initialize: %#v", got)
	}
}

func TestTaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.CreateTask(ctx, "alice", "buy milk", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	list, err := repo.ListTasks(ctx, TaskListFilter{Owner: "alice", Sort: model.SortByCreated})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(list) != 1 || list[0].Text != "buy milk" || list[0].Status != model.StatusPending {
		t.Fatalf("unexpected list: %#v", list)
	}
	if list[0].ID != id || list[0].Due != nil {
		t.Fatalf("unexpected task fields: %#v", list[0])
	}
	if !list[0].CreatedAt.Equal(parseRFC3339(t, "2026-02-09T12:00:00Z")) {
		t.Fatalf("unexpected created_at: %v", list[0].CreatedAt)
	}

	due := dueDate(2025, time.January, 1)
	if err := repo.UpdateTask(ctx, id, "buy oat milk", due); err != nil {
		t.Fatalf("update task: %v", err)
	}
	got, err := repo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Text != "buy oat milk" || got.Due == nil || !got.Due.Equal(*due) {
		t.Fatalf("unexpected task after update: %#v", got)
	}
	if got.Owner != "alice" {
		t.Fatalf("owner changed: %q", got.Owner)
	}

	if err := repo.DeleteTask(ctx, id); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	_, err = repo.GetTask(ctx, id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestOwnerIsolation(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	if _, err := repo.CreateTask(ctx, "alice", "secret plan", nil); err != nil {
		t.Fatalf("create task: %v", err)
	}
	list, err := repo.ListTasks(ctx, TaskListFilter{Owner: "bob", Sort: model.SortByCreated})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("bob saw alice's tasks: %#v", list)
	}
	if _, err := repo.ListTasks(ctx, TaskListFilter{}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation without owner, got: %v", err)
	}
}

func TestSetStatusRoundTripKeepsFields(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	due := dueDate(2025, time.May, 4)
	id, err := repo.CreateTask(ctx, "alice", "file taxes", due)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := repo.SetStatus(ctx, id, true); err != nil {
		t.Fatalf("set done: %v", err)
	}
	got, err := repo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != model.StatusDone {
		t.Fatalf("expected done, got %q", got.Status)
	}
	if err := repo.SetStatus(ctx, id, true); err != nil {
		t.Fatalf("setting done twice should succeed: %v", err)
	}
	if err := repo.SetStatus(ctx, id, false); err != nil {
		t.Fatalf("set pending: %v", err)
	}
	got, err = repo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != model.StatusPending || got.Text != "file taxes" || got.Due == nil || !got.Due.Equal(*due) {
		t.Fatalf("unexpected task after toggle round trip: %#v", got)
	}
}

func TestMutationsOnMissingIDReportNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	if err := repo.SetStatus(ctx, 404, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("set status: expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateTask(ctx, 404, "x", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	id, err := repo.CreateTask(ctx, "alice", "once", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := repo.DeleteTask(ctx, id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repo.DeleteTask(ctx, id); err != nil {
		t.Fatalf("second delete should not fail: %v", err)
	}
}

func TestValidationRejectsEmptyText(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	if _, err := repo.CreateTask(ctx, "alice", "   ", nil); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("create: expected ErrValidation, got %v", err)
	}
	id, err := repo.CreateTask(ctx, "alice", "real", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := repo.UpdateTask(ctx, id, "", nil); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("update: expected ErrValidation, got %v", err)
	}
	got, err := repo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Text != "real" {
		t.Fatalf("rejected update leaked into storage: %#v", got)
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	first, err := repo.CreateTask(ctx, "alice", "one", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.CreateTask(ctx, "alice", "two", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.DeleteTask(ctx, second); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third, err := repo.CreateTask(ctx, "alice", "three", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !(first < second && second < third) {
		t.Fatalf("ids not monotonic: %d %d %d", first, second, third)
	}
}

func TestListSortAndFilter(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	a, _ := repo.CreateTask(ctx, "alice", "A", nil)
	b, _ := repo.CreateTask(ctx, "alice", "B", dueDate(2025, time.January, 1))
	c, _ := repo.CreateTask(ctx, "alice", "C", dueDate(2024, time.June, 1))
	if err := repo.SetStatus(ctx, c, true); err != nil {
		t.Fatalf("set status: %v", err)
	}

	byDue, err := repo.ListTasks(ctx, TaskListFilter{Owner: "alice", Sort: model.SortByDue})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byDue) != 3 || byDue[0].ID != a || byDue[1].ID != c || byDue[2].ID != b {
		t.Fatalf("unexpected due order: %#v", byDue)
	}

	done := model.StatusDone
	onlyDone, err := repo.ListTasks(ctx, TaskListFilter{Owner: "alice", Status: &done, Sort: model.SortByCreated})
	if err != nil {
		t.Fatalf("list done: %v", err)
	}
	if len(onlyDone) != 1 || onlyDone[0].ID != c {
		t.Fatalf("unexpected done list: %#v", onlyDone)
	}

	paged, err := repo.ListTasks(ctx, TaskListFilter{Owner: "alice", Sort: model.SortByID, Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != b {
		t.Fatalf("unexpected page: %#v", paged)
	}
}

func TestConcurrentSetStatusLastWriteWins(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	id, err := repo.CreateTask(ctx, "alice", "contended", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(done bool) {
			defer wg.Done()
			errs <- repo.SetStatus(ctx, id, done)
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent set status: %v", err)
		}
	}

	got, err := repo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Status.IsValid() || got.Text != "contended" {
		t.Fatalf("corrupted task after concurrent writes: %#v", got)
	}
	if err := repo.SetStatus(ctx, id, true); err != nil {
		t.Fatalf("final write: %v", err)
	}
	got, _ = repo.GetTask(ctx, id)
	if got.Status != model.StatusDone {
		t.Fatalf("last write did not win: %q", got.Status)
	}
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	_, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "missing-dir", "nested", "tasks.db"))
	if !errors.Is(err, model.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable for unreachable path, got %v", err)
	}

	repo := setupRepo(t)
	_ = repo.Close()
	if _, err := repo.ListTasks(ctx, TaskListFilter{Owner: "alice"}); !errors.Is(err, model.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on closed handle, got %v", err)
	}
}

func TestNewSQLiteRepositoryRejectsNilDB(t *testing.T) {
	var db *sql.DB
	if _, err := NewSQLiteRepository(db); err == nil {
		t.Fatal("expected error for nil db")
	}
}
