package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/todolist/internal/datecodec"
	"github.com/sandeepkv93/todolist/internal/listview"
	"github.com/sandeepkv93/todolist/internal/model"
)

const (
	sqliteTimeLayout   = time.RFC3339
	defaultBusyTimeout = 5 * time.Second
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

type Option func(*SQLiteRepository)

// WithClock overrides the source of created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewSQLiteRepository(db *sql.DB, opts ...Option) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	repo := &SQLiteRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

// OpenSQLite opens (creating if needed) the database file at path and verifies it can be reached.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage: open sqlite: %w: empty path", model.ErrStoreUnavailable)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", path, defaultBusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, wrapErr("open sqlite", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapErr("open sqlite", err)
	}
	repo, err := NewSQLiteRepository(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	return MigrateUp(ctx, r.db)
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, owner, text string, due *time.Time) (int64, error) {
	task := model.Task{
		Owner:     strings.TrimSpace(owner),
		Text:      text,
		Due:       due,
		Status:    model.StatusPending,
		CreatedAt: r.now().UTC().Truncate(time.Second),
	}
	if err := task.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (owner, text, due, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		task.Owner, task.Text, nullDate(task.Due), string(task.Status), task.CreatedAt.Format(sqliteTimeLayout),
	)
	if err != nil {
		return 0, wrapErr("create task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("create task", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner, text, due, status, created_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, fmt.Errorf("storage: get task %d: %w", id, ErrNotFound)
		}
		return model.Task{}, wrapErr("get task", err)
	}
	return task, nil
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	owner := strings.TrimSpace(filter.Owner)
	if owner == "" {
		return nil, fmt.Errorf("%w: list requires an owner", model.ErrValidation)
	}
	query := `SELECT id, owner, text, due, status, created_at FROM tasks WHERE owner = ?`
	args := []any{owner}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list tasks", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, wrapErr("list tasks", scanErr)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list tasks", err)
	}
	return paginate(listview.Project(out, filter.Sort, nil), filter.Limit, filter.Offset), nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id int64, done bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(model.StatusFromDone(done)), id)
	if err != nil {
		return wrapErr("set status", err)
	}
	return checkRowsAffected(res, "set status", id)
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, id int64, text string, due *time.Time) error {
	if err := model.ValidateText(text); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET text = ?, due = ? WHERE id = ?`, text, nullDate(due), id)
	if err != nil {
		return wrapErr("update task", err)
	}
	return checkRowsAffected(res, "update task", id)
}

// DeleteTask removes the task. A missing id is not an error so duplicate submits are harmless.
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return wrapErr("delete task", err)
	}
	return nil
}

func nullDate(v *time.Time) any {
	if v == nil {
		return nil
	}
	return datecodec.FormatCanonical(v)
}

func paginate(tasks []model.Task, limit, offset int) []model.Task {
	if offset > 0 {
		if offset >= len(tasks) {
			return []model.Task{}
		}
		tasks = tasks[offset:]
	}
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var due sql.NullString
	var status string
	var created string
	if err := s.Scan(&out.ID, &out.Owner, &out.Text, &due, &status, &created); err != nil {
		return model.Task{}, err
	}
	createdAt, err := time.Parse(sqliteTimeLayout, created)
	if err != nil {
		return model.Task{}, err
	}
	if due.Valid {
		out.Due, err = datecodec.ParseCanonical(due.String)
		if err != nil {
			return model.Task{}, err
		}
	}
	out.Status = model.Status(status)
	out.CreatedAt = createdAt.UTC()
	return out, nil
}

func checkRowsAffected(res sql.Result, op string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if affected == 0 {
		return fmt.Errorf("storage: %s %d: %w", op, id, ErrNotFound)
	}
	return nil
}

// wrapErr tags driver failures that mean the database cannot be reached with ErrStoreUnavailable.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return fmt.Errorf("storage: %s: %w: %w", op, model.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("storage: %s: %w", op, err)
}

func isUnavailable(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrIoErr, sqlite3.ErrBusy,
			sqlite3.ErrLocked, sqlite3.ErrReadonly, sqlite3.ErrPerm, sqlite3.ErrCorrupt:
			return true
		}
		return false
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// database/sql does not export its closed-handle error
	return strings.Contains(err.Error(), "sql: database is closed")
}
