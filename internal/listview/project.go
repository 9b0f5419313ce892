// Package listview computes the ordered, filtered projection of one owner's tasks.
package listview

import (
	"sort"
	"time"

	"github.com/sandeepkv93/todolist/internal/model"
)

// Project filters tasks to statusFilter (nil keeps every status) and orders them by key.
// The input slice is not modified.
func Project(tasks []model.Task, key model.SortKey, statusFilter *model.Status) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if statusFilter != nil && task.Status != *statusFilter {
			continue
		}
		out = append(out, task)
	}

	cmp := compareFor(key)
	sort.SliceStable(out, func(i, j int) bool {
		if c := cmp(out[i], out[j]); c != 0 {
			return c < 0
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type compareFunc func(a, b model.Task) int

func compareFor(key model.SortKey) compareFunc {
	switch key {
	case model.SortByDue:
		return func(a, b model.Task) int {
			if c := compareDue(a.Due, b.Due); c != 0 {
				return c
			}
			// done before pending within one due date
			return b.Status.Rank() - a.Status.Rank()
		}
	case model.SortByCreated:
		return func(a, b model.Task) int {
			return compareTime(b.CreatedAt, a.CreatedAt)
		}
	case model.SortByStatus:
		return func(a, b model.Task) int {
			if c := a.Status.Rank() - b.Status.Rank(); c != 0 {
				return c
			}
			return compareDue(a.Due, b.Due)
		}
	default:
		return func(a, b model.Task) int {
			return 0
		}
	}
}

// compareDue treats a missing due date as the lowest value.
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return compareTime(*a, *b)
	}
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
