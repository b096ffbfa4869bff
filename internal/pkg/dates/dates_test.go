package dates

import (
	"testing"
	"time"
)

func TestParseSameCalendarDay(t *testing.T) {
	iso, err := Parse("2025-08-20")
	if err != nil {
		t.Fatalf("Failed to parse ISO date: %v", err)
	}
	long, err := Parse("August 20, 2025")
	if err != nil {
		t.Fatalf("Failed to parse long-form date: %v", err)
	}

	if !iso.Equal(long) {
		t.Errorf("ISO and long-form encodings of the same day differ: %v vs %v", iso, long)
	}
	if iso.Hour() != 0 || iso.Minute() != 0 {
		t.Errorf("Date-only input not normalized to midnight: %v", iso)
	}
}

func TestParseDateTimeLayouts(t *testing.T) {
	inputs := []string{
		"August 20, 2025 at 14:30",
		"August 20, 2025 at 2:30 PM",
		"08/20/2025 at 14:30",
		"08/20/2025 at 2:30 PM",
	}
	want := time.Date(2025, time.August, 20, 14, 30, 0, 0, time.Local)

	for _, in := range inputs {
		got, err := Parse(in)
		if err != nil {
			t.Errorf("Failed to parse %q: %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParsePreParsedInputs(t *testing.T) {
	epoch := int64(1755648000)
	want := time.Unix(epoch, 0).In(time.Local)

	got, err := Parse(epoch)
	if err != nil {
		t.Fatalf("Failed to parse epoch int64: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Parse(int64) = %v, want %v", got, want)
	}

	got, err = Parse(Timestamp{Seconds: epoch})
	if err != nil {
		t.Fatalf("Failed to parse Timestamp: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Parse(Timestamp) = %v, want %v", got, want)
	}

	got, err = Parse(map[string]interface{}{"seconds": float64(epoch)})
	if err != nil {
		t.Fatalf("Failed to parse seconds map: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Parse(map) = %v, want %v", got, want)
	}
}

func TestParseUnparseable(t *testing.T) {
	for _, in := range []interface{}{"", "next tuesday", true, nil} {
		if _, err := Parse(in); err != ErrUnparseable {
			t.Errorf("Parse(%v) error = %v, want ErrUnparseable", in, err)
		}
	}
}

func TestParseOrNowReportsFallback(t *testing.T) {
	if _, fellBack := ParseOrNow("2025-08-20"); fellBack {
		t.Error("Fallback reported for a parseable date")
	}
	if _, fellBack := ParseOrNow("garbage"); !fellBack {
		t.Error("No fallback reported for an unparseable date")
	}
}

func TestDaysBetween(t *testing.T) {
	lateNight := time.Date(2025, time.August, 20, 23, 0, 0, 0, time.Local)
	earlyMorning := time.Date(2025, time.August, 22, 1, 0, 0, 0, time.Local)

	if got := DaysBetween(lateNight, earlyMorning); got != 2 {
		t.Errorf("DaysBetween = %d, want 2", got)
	}
	if got := DaysBetween(earlyMorning, lateNight); got != -2 {
		t.Errorf("Reversed DaysBetween = %d, want -2", got)
	}
	if got := DaysBetween(lateNight, lateNight); got != 0 {
		t.Errorf("Same-day DaysBetween = %d, want 0", got)
	}
}

func TestDaysBetweenAcrossDSTTransitions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Spring forward: March 9, 2025 has 23 hours in this zone
	springStart := time.Date(2025, time.March, 8, 0, 0, 0, 0, loc)
	springEnd := time.Date(2025, time.March, 10, 0, 0, 0, 0, loc)
	if got := DaysBetween(springStart, springEnd); got != 2 {
		t.Errorf("DaysBetween across spring-forward = %d, want 2", got)
	}

	// Fall back: November 2, 2025 has 25 hours
	fallStart := time.Date(2025, time.November, 1, 0, 0, 0, 0, loc)
	fallEnd := time.Date(2025, time.November, 3, 0, 0, 0, 0, loc)
	if got := DaysBetween(fallStart, fallEnd); got != 2 {
		t.Errorf("DaysBetween across fall-back = %d, want 2", got)
	}
}

func TestFormatDisplay(t *testing.T) {
	if got := FormatDisplay("2025-08-20"); got != "August 20, 2025" {
		t.Errorf("FormatDisplay = %q, want %q", got, "August 20, 2025")
	}
	if got := FormatDisplay("garbage"); got != Sentinel {
		t.Errorf("FormatDisplay of unparseable input = %q, want %q", got, Sentinel)
	}
}
