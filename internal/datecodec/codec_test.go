package datecodec

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestParseDisplayRejectsMalformedInput(t *testing.T) {
	c := Default()
	cases := []string{
		"",
		"31-12-24",
		"31.12.24",
		"1/12/24",
		"31/1/24",
		"31/12/2024",
		"30/02/24",
		"32/01/24",
		"00/01/24",
		"15/13/24",
		" 15/01/24",
		"15/01/24 ",
		"tomorrow",
	}
	for _, in := range cases {
		if got := c.ParseDisplay(in); got != nil {
			t.Fatalf("ParseDisplay(%q) = %v, want nil", in, got)
		}
	}
}

func TestParseDisplayAcceptsValidDates(t *testing.T) {
	c := Default()
	got := c.ParseDisplay("29/02/24")
	if got == nil {
		t.Fatal("expected leap day to parse")
	}
	want := Date(2024, time.February, 29)
	if !got.Equal(want) {
		t.Fatalf("ParseDisplay = %v, want %v", got, want)
	}
	if FormatCanonical(got) != "2024-02-29" {
		t.Fatalf("unexpected canonical form: %q", FormatCanonical(got))
	}
}

func TestDisplayRoundTripForEveryDayInWindow(t *testing.T) {
	c := Default()
	start := Date(1969, time.January, 1)
	end := Date(2068, time.December, 31)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		s := d.Format(DefaultDisplayLayout)
		parsed := c.ParseDisplay(s)
		if parsed == nil {
			t.Fatalf("ParseDisplay(%q) returned nil", s)
		}
		if out := c.FormatDisplay(parsed); out != s {
			t.Fatalf("FormatDisplay(ParseDisplay(%q)) = %q", s, out)
		}
		canonical := d
		if back := c.ParseDisplay(c.FormatDisplay(&canonical)); back == nil || !back.Equal(canonical) {
			t.Fatalf("ParseDisplay(FormatDisplay(%s)) = %v", FormatCanonical(&canonical), back)
		}
	}
}

func TestFormatDisplayPlaceholder(t *testing.T) {
	c, err := New("", "(none)")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	if got := c.FormatDisplay(nil); got != "(none)" {
		t.Fatalf("FormatDisplay(nil) = %q", got)
	}
	if Default().FormatDisplay(nil) != DefaultPlaceholder {
		t.Fatal("default placeholder not used")
	}
}

func TestCustomLayoutRoundTrip(t *testing.T) {
	c, err := New("2006.01.02", "")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	for _, s := range []string{"2025.01.01", "1999.12.31", "2030.06.15"} {
		parsed := c.ParseDisplay(s)
		if parsed == nil {
			t.Fatalf("ParseDisplay(%q) returned nil", s)
		}
		if c.FormatDisplay(parsed) != s {
			t.Fatalf("round trip drift for %q: %q", s, c.FormatDisplay(parsed))
		}
	}
}

func TestMonthNameLayoutRejectsCaseDrift(t *testing.T) {
	c, err := New("02-Jan-06", "")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	if c.ParseDisplay("05-jan-25") != nil {
		t.Fatal("expected lower-case month name to be rejected")
	}
	if c.ParseDisplay("05-Jan-25") == nil {
		t.Fatal("expected canonical month name to parse")
	}
}

func TestNewRejectsLayoutWithoutDate(t *testing.T) {
	for _, layout := range []string{"15:04", "Jan 2006", "02 Jan"} {
		if _, err := New(layout, ""); !errors.Is(err, ErrInvalidLayout) {
			t.Fatalf("New(%q) expected ErrInvalidLayout, got %v", layout, err)
		}
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	d, err := ParseCanonical("2025-01-01")
	if err != nil {
		t.Fatalf("parse canonical: %v", err)
	}
	if FormatCanonical(d) != "2025-01-01" {
		t.Fatalf("unexpected canonical output: %q", FormatCanonical(d))
	}
	if d, err := ParseCanonical(""); err != nil || d != nil {
		t.Fatalf("empty canonical should be nil, got %v %v", d, err)
	}
	if _, err := ParseCanonical("2025-13-01"); err == nil {
		t.Fatal("expected error for invalid canonical date")
	}
	if FormatCanonical(nil) != "" {
		t.Fatal("nil date should format as empty canonical")
	}
}

func ExampleCodec_FormatDisplay() {
	c := Default()
	d := Date(2025, time.January, 1)
	fmt.Println(c.FormatDisplay(&d))
	fmt.Println(c.FormatDisplay(nil))
	// Output:
	// 01/01/25
	// -
}
