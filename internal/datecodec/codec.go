// Package datecodec converts due dates between the user-facing display form and the canonical
// year-month-day form kept in storage.
package datecodec

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// CanonicalLayout is the storage form of a due date.
	CanonicalLayout = "2006-01-02"
	// DefaultDisplayLayout is day/month/two-digit-year.
	DefaultDisplayLayout = "02/01/06"
	DefaultPlaceholder   = "-"
)

var ErrInvalidLayout = errors.New("datecodec: invalid display layout")

type Codec struct {
	layout      string
	placeholder string
}

func New(layout, placeholder string) (*Codec, error) {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		layout = DefaultDisplayLayout
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	probe := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	parsed, err := time.Parse(layout, probe.Format(layout))
	if err != nil || !sameDay(parsed, probe) {
		return nil, fmt.Errorf("%w: %q must carry day, month and year", ErrInvalidLayout, layout)
	}
	return &Codec{layout: layout, placeholder: placeholder}, nil
}

// Default returns a codec for DefaultDisplayLayout.
func Default() *Codec {
	return &Codec{layout: DefaultDisplayLayout, placeholder: DefaultPlaceholder}
}

func (c *Codec) Layout() string {
	return c.layout
}

func (c *Codec) Placeholder() string {
	return c.placeholder
}

// ParseDisplay returns nil for empty or malformed input. Callers that need to tell "no date"
// apart from "bad date" must check the raw string before calling.
func (c *Codec) ParseDisplay(text string) *time.Time {
	if text == "" {
		return nil
	}
	tm, err := time.Parse(c.layout, text)
	if err != nil {
		return nil
	}
	d := dateOf(tm)
	// reject anything that would not render back identically (case drift, etc.)
	if d.Format(c.layout) != text {
		return nil
	}
	return &d
}

func (c *Codec) FormatDisplay(d *time.Time) string {
	if d == nil {
		return c.placeholder
	}
	return dateOf(*d).Format(c.layout)
}

func ParseCanonical(text string) (*time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	tm, err := time.Parse(CanonicalLayout, text)
	if err != nil {
		return nil, fmt.Errorf("datecodec: parse canonical date %q: %w", text, err)
	}
	d := dateOf(tm)
	return &d, nil
}

func FormatCanonical(d *time.Time) string {
	if d == nil {
		return ""
	}
	return dateOf(*d).Format(CanonicalLayout)
}

// Date builds a canonical date value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
