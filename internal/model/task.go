package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrValidation       = errors.New("model: validation failed")
	ErrNotFound         = errors.New("model: task not found")
	ErrStoreUnavailable = errors.New("model: task store unavailable")
	ErrInvalidStatus    = errors.New("model: invalid task status")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDone:
		return true
	default:
		return false
	}
}

// Rank is the natural order of the enum used by every sort: pending before done.
func (s Status) Rank() int {
	if s == StatusDone {
		return 1
	}
	return 0
}

func StatusFromDone(done bool) Status {
	if done {
		return StatusDone
	}
	return StatusPending
}

// ParseStatusFilter maps user input to a status filter; "", "all" and "any" mean no filter.
func ParseStatusFilter(raw string) (*Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all", "any":
		return nil, nil
	}
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return &s, nil
}

type Task struct {
	ID        int64
	Owner     string
	Text      string
	Due       *time.Time
	Status    Status
	CreatedAt time.Time
}

func (t Task) Done() bool {
	return t.Status == StatusDone
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Owner) == "" {
		return fmt.Errorf("%w: task owner is required", ErrValidation)
	}
	if err := ValidateText(t.Text); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("%w: task created_at is required", ErrValidation)
	}
	return nil
}

func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: task text is required", ErrValidation)
	}
	return nil
}
