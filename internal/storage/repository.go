package storage

import (
	"context"
	"time"

	"github.com/sandeepkv93/todolist/internal/model"
)

var ErrNotFound = model.ErrNotFound

type TaskListFilter struct {
	Owner  string
	Status *model.Status
	Sort   model.SortKey
	Limit  int
	Offset int
}

// Repository is the task store. Mutations look tasks up by bare id: callers must only offer ids they
// listed for the current owner.
type Repository interface {
	Initialize(ctx context.Context) error
	CreateTask(ctx context.Context, owner, text string, due *time.Time) (int64, error)
	GetTask(ctx context.Context, id int64) (model.Task, error)
	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
	SetStatus(ctx context.Context, id int64, done bool) error
	UpdateTask(ctx context.Context, id int64, text string, due *time.Time) error
	DeleteTask(ctx context.Context, id int64) error
	Close() error
}
