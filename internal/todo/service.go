// Package todo is the boundary between user actions and the task store. It trims and validates input,
// resolves display dates, keeps mutations inside the caller's own tasks, and turns store errors into
// user-facing feedback.
package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todolist/internal/datecodec"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/storage"
)

type Service struct {
	store  storage.Repository
	codec  *datecodec.Codec
	logger *log.Logger
}

func NewService(store storage.Repository, codec *datecodec.Codec, logger *log.Logger) *Service {
	if codec == nil {
		codec = datecodec.Default()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{store: store, codec: codec, logger: logger}
}

func (s *Service) Codec() *datecodec.Codec {
	return s.codec
}

// ParseDue resolves raw display input. Empty input means no due date; non-empty input that does not
// parse is a validation error so the caller can re-prompt.
func (s *Service) ParseDue(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	due := s.codec.ParseDisplay(raw)
	if due == nil {
		return nil, fmt.Errorf("%w: due date %q is not in %s format", model.ErrValidation, raw, s.codec.Layout())
	}
	return due, nil
}

func (s *Service) Add(ctx context.Context, owner, text, dueRaw string) (int64, error) {
	text = strings.TrimSpace(text)
	if err := model.ValidateText(text); err != nil {
		return 0, err
	}
	due, err := s.ParseDue(dueRaw)
	if err != nil {
		return 0, err
	}
	// natural-language parsing is a placeholder: the text is stored as typed
	id, err := s.store.CreateTask(ctx, owner, text, due)
	if err != nil {
		s.logger.Error("create task failed", "owner", owner, "err", err)
		return 0, err
	}
	s.logger.Info("task created", "owner", owner, "id", id)
	return id, nil
}

func (s *Service) List(ctx context.Context, owner string, key model.SortKey, status *model.Status) ([]model.Task, error) {
	tasks, err := s.store.ListTasks(ctx, storage.TaskListFilter{Owner: owner, Status: status, Sort: key})
	if err != nil {
		s.logger.Error("list tasks failed", "owner", owner, "err", err)
		return nil, err
	}
	return tasks, nil
}

// Get returns the task only when it belongs to owner.
func (s *Service) Get(ctx context.Context, owner string, id int64) (model.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if task.Owner != owner {
		return model.Task{}, fmt.Errorf("todo: task %d: %w", id, model.ErrNotFound)
	}
	return task, nil
}

func (s *Service) SetDone(ctx context.Context, owner string, id int64, done bool) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return s.mutationErr("set status", owner, id, err)
	}
	if err := s.store.SetStatus(ctx, id, done); err != nil {
		return s.mutationErr("set status", owner, id, err)
	}
	s.logger.Info("task status changed", "owner", owner, "id", id, "status", model.StatusFromDone(done))
	return nil
}

// Toggle flips the status and returns the new one.
func (s *Service) Toggle(ctx context.Context, owner string, id int64) (model.Status, error) {
	task, err := s.Get(ctx, owner, id)
	if err != nil {
		return "", s.mutationErr("toggle", owner, id, err)
	}
	done := !task.Done()
	if err := s.store.SetStatus(ctx, id, done); err != nil {
		return "", s.mutationErr("toggle", owner, id, err)
	}
	status := model.StatusFromDone(done)
	s.logger.Info("task status changed", "owner", owner, "id", id, "status", status)
	return status, nil
}

func (s *Service) Update(ctx context.Context, owner string, id int64, text, dueRaw string) error {
	text = strings.TrimSpace(text)
	if err := model.ValidateText(text); err != nil {
		return err
	}
	due, err := s.ParseDue(dueRaw)
	if err != nil {
		return err
	}
	return s.Saver(owner).UpdateTask(ctx, id, text, due)
}

// Delete has an at-most-once effect: unknown or foreign ids are ignored.
func (s *Service) Delete(ctx context.Context, owner string, id int64) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Debug("delete of missing task ignored", "owner", owner, "id", id)
			return nil
		}
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		s.logger.Error("delete task failed", "owner", owner, "id", id, "err", err)
		return err
	}
	s.logger.Info("task deleted", "owner", owner, "id", id)
	return nil
}

// Saver returns the update path used by edit sessions, scoped to owner's tasks.
func (s *Service) Saver(owner string) OwnerSaver {
	return OwnerSaver{svc: s, owner: owner}
}

type OwnerSaver struct {
	svc   *Service
	owner string
}

func (o OwnerSaver) UpdateTask(ctx context.Context, id int64, text string, due *time.Time) error {
	if _, err := o.svc.Get(ctx, o.owner, id); err != nil {
		return o.svc.mutationErr("update", o.owner, id, err)
	}
	if err := o.svc.store.UpdateTask(ctx, id, text, due); err != nil {
		return o.svc.mutationErr("update", o.owner, id, err)
	}
	o.svc.logger.Info("task updated", "owner", o.owner, "id", id)
	return nil
}

func (s *Service) mutationErr(op, owner string, id int64, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("task vanished before "+op, "owner", owner, "id", id)
	} else {
		s.logger.Error(op+" failed", "owner", owner, "id", id, "err", err)
	}
	return err
}
