// Package timeutil holds the timezone-aware time arithmetic the scheduling
// engine is built on. Availability rules and exceptions are wall-clock values
// in the builder's timezone; bookings are UTC instants. Every comparison
// happens in UTC after conversion, so DST transitions are absorbed by the
// time.Date construction in the builder's location.
package timeutil

import (
	"fmt"
	"sort"
	"time"
)

const (
	// HHMM is the wall-clock time layout used by availability rules.
	HHMM = "15:04"
	// DateLayout is the calendar date layout used by exceptions.
	DateLayout = "2006-01-02"
)

// Date is a calendar date with no time or zone attached. What instant it
// maps to depends on the location it is interpreted in.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return d.AddDays(1)
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	y, m, day := t.Date()
	return Date{Year: y, Month: m, Day: day}
}

// After reports whether d falls after other.
func (d Date) After(other Date) bool {
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	if d.Month != other.Month {
		return d.Month > other.Month
	}
	return d.Day > other.Day
}

// Weekday returns the day of week (Sunday=0) for d. A calendar date has the
// same weekday in every location, so no zone is needed.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// AtMinute returns the UTC instant of minute-of-day on date d in loc.
// Going through time.Date keeps DST correct: 540 (09:00) on a spring-forward
// day resolves to whatever instant the local clock actually shows 09:00.
func (d Date) AtMinute(minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, minute/60, minute%60, 0, 0, loc).UTC()
}

// ParseHHMM parses a wall-clock "HH:MM" (or longer, e.g. "09:00:00") string
// into a minute-of-day. Postgres TIME columns scan back with seconds attached,
// so anything beyond the first five characters is ignored.
func ParseHHMM(s string) (int, error) {
	if len(s) < 5 {
		return 0, fmt.Errorf("invalid time string: %q", s)
	}
	t, err := time.Parse(HHMM, s[:5])
	if err != nil {
		return 0, fmt.Errorf("invalid time string: %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinute renders a minute-of-day back to "HH:MM".
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Interval is a half-open [Start, End) span of UTC instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Pad widens the interval by buffer on both ends.
func (iv Interval) Pad(buffer time.Duration) Interval {
	return Interval{Start: iv.Start.Add(-buffer), End: iv.End.Add(buffer)}
}

// IsValid reports whether the interval has positive length.
func (iv Interval) IsValid() bool {
	return iv.End.After(iv.Start)
}

// Window is a wall-clock availability window within a single day, expressed
// in minutes from midnight, half-open.
type Window struct {
	StartMinute int
	EndMinute   int
}

// IsValid reports whether the window has positive length.
func (w Window) IsValid() bool {
	return w.EndMinute > w.StartMinute
}

// MergeWindows drops empty or inverted windows and unions the rest, so
// overlapping rules for the same weekday produce one seamless window instead
// of duplicate slot candidates at the seam.
func MergeWindows(windows []Window) []Window {
	valid := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.IsValid() {
			valid = append(valid, w)
		}
	}
	if len(valid) <= 1 {
		return valid
	}
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].StartMinute != valid[j].StartMinute {
			return valid[i].StartMinute < valid[j].StartMinute
		}
		return valid[i].EndMinute < valid[j].EndMinute
	})
	merged := []Window{valid[0]}
	for _, w := range valid[1:] {
		last := &merged[len(merged)-1]
		if w.StartMinute <= last.EndMinute {
			if w.EndMinute > last.EndMinute {
				last.EndMinute = w.EndMinute
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}
