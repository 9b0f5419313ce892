package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/todolist/internal/model"
)

var ErrNotEditing = errors.New("session: task is not being edited")

type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// Draft holds the in-progress field values of an edit form. DueRaw is the display text as typed.
type Draft struct {
	Text   string
	DueRaw string
}

// Saver is the store operation a save commits through.
type Saver interface {
	UpdateTask(ctx context.Context, id int64, text string, due *time.Time) error
}

// DueParser turns display text into a date, returning nil for malformed input.
type DueParser interface {
	ParseDisplay(text string) *time.Time
}

// EditSession tracks which task rows are mid-edit for one interactive session. It never touches storage
// except through Save.
type EditSession struct {
	mu      sync.Mutex
	entries map[int64]*Draft
}

func NewEditSession() *EditSession {
	return &EditSession{entries: make(map[int64]*Draft)}
}

func (s *EditSession) State(id int64) EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; ok {
		return Editing
	}
	return Viewing
}

// Begin moves the task into Editing with a draft seeded from its current values.
// Beginning again on a task already being edited keeps the existing draft.
func (s *EditSession) Begin(id int64, current Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; ok {
		return
	}
	d := current
	s.entries[id] = &d
}

func (s *EditSession) SetDraft(id int64, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotEditing, id)
	}
	*entry = d
	return nil
}

func (s *EditSession) Draft(id int64) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return Draft{}, false
	}
	return *entry, true
}

// Cancel discards the draft without calling the store.
func (s *EditSession) Cancel(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Save commits the draft of id through saver. The task stays in Editing when the draft does not
// validate or the store rejects it, and returns to Viewing only after a successful update. A draft
// replaced while the update was in flight is kept.
func (s *EditSession) Save(ctx context.Context, id int64, parser DueParser, saver Saver) error {
	draft, ok := s.Draft(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotEditing, id)
	}
	text := strings.TrimSpace(draft.Text)
	if text == "" {
		return fmt.Errorf("%w: task text is required", model.ErrValidation)
	}
	var due *time.Time
	if raw := strings.TrimSpace(draft.DueRaw); raw != "" {
		due = parser.ParseDisplay(raw)
		if due == nil {
			return fmt.Errorf("%w: unrecognised due date %q", model.ErrValidation, raw)
		}
	}
	if err := saver.UpdateTask(ctx, id, text, due); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.Forget(id)
		}
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[id]; ok && *entry == draft {
		delete(s.entries, id)
	}
	return nil
}

// Forget drops any flag for a deleted task.
func (s *EditSession) Forget(id int64) {
	s.Cancel(id)
}

// Retain drops flags for every id not in visible, so flags of tasks deleted elsewhere read as absent.
func (s *EditSession) Retain(visible []int64) {
	keep := make(map[int64]struct{}, len(visible))
	for _, id := range visible {
		keep[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.entries {
		if _, ok := keep[id]; !ok {
			delete(s.entries, id)
		}
	}
}

// Editing returns the ids currently in the Editing state.
func (s *EditSession) Editing() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.entries))
	for id := range s.entries {
		out = append(out, id)
	}
	return out
}
