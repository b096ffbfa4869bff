package dates

import (
	"errors"
	"time"
)

// ErrUnparseable is returned when no parse strategy accepts the input
var ErrUnparseable = errors.New("unparseable date")

// DisplayLayout is the long-form encoding the transaction feed renders
const DisplayLayout = "January 2, 2006"

// TimeLayout is the clock encoding stored alongside resolution dates
const TimeLayout = "3:04 PM"

// Sentinel returned by FormatDisplay for unparseable input
const Sentinel = "N/A"

// Timestamp mirrors a pre-parsed epoch timestamp object as the store
// serializes it.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

// dateOnly layouts normalize to local midnight so day-difference arithmetic
// is stable; dateTime layouts keep their clock component.
var dateOnlyLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
}

var dateTimeLayouts = []string{
	"January 2, 2006 at 15:04",
	"January 2, 2006 at 3:04 PM",
	"01/02/2006 at 15:04",
	"01/02/2006 at 3:04 PM",
}

// Parse accepts the textual date encodings found in stored records, tried in
// priority order, plus pre-parsed epoch timestamps. Returns ErrUnparseable
// when every strategy fails; it never silently substitutes the current date.
func Parse(input interface{}) (time.Time, error) {
	switch v := input.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, ErrUnparseable
		}
		return *v, nil
	case Timestamp:
		return time.Unix(v.Seconds, v.Nanoseconds).In(time.Local), nil
	case *Timestamp:
		if v == nil {
			return time.Time{}, ErrUnparseable
		}
		return time.Unix(v.Seconds, v.Nanoseconds).In(time.Local), nil
	case map[string]interface{}:
		if secs, ok := v["seconds"].(float64); ok {
			return time.Unix(int64(secs), 0).In(time.Local), nil
		}
		return time.Time{}, ErrUnparseable
	case int64:
		return time.Unix(v, 0).In(time.Local), nil
	case float64:
		return time.Unix(int64(v), 0).In(time.Local), nil
	case string:
		return parseString(v)
	default:
		return time.Time{}, ErrUnparseable
	}
}

func parseString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrUnparseable
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Midnight(t), nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparseable
}

// ParseOrNow parses like Parse but falls back to the current time on total
// failure. The second return reports whether the fallback was taken; callers
// must treat a true value as a signal, not a parsed date.
func ParseOrNow(input interface{}) (time.Time, bool) {
	t, err := Parse(input)
	if err != nil {
		return time.Now(), true
	}
	return t, false
}

// Midnight truncates a time to local midnight of its calendar day
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole calendar days from a to b. Negative when b
// precedes a. Computed on calendar dates, not elapsed hours, so a DST
// transition inside the span cannot shorten the count.
func DaysBetween(a, b time.Time) int {
	return dayNumber(b) - dayNumber(a)
}

// dayNumber maps a calendar date to a continuous day count (Julian day number)
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	adj := (14 - int(m)) / 12
	yy := y + 4800 - adj
	mm := int(m) + 12*adj - 3
	return d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
}

// FormatDisplay renders any accepted input as "Month D, YYYY", or "N/A" when
// the input cannot be parsed.
func FormatDisplay(input interface{}) string {
	t, err := Parse(input)
	if err != nil {
		return Sentinel
	}
	return t.Format(DisplayLayout)
}
