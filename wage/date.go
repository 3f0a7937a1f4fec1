package wage

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Business-timezone calendar date (no clock component)
// =============================================================================

// Date is a plain calendar date. Internally it is midnight UTC so that two
// dates built from the same year/month/day always compare equal, whatever
// zone the source instant carried.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }
func (d Date) IsZero() bool           { return d.Time.IsZero() }

// Within reports whether d falls in [from, to] inclusive.
func (d Date) Within(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}

// Arithmetic and properties
func (d Date) AddDays(n int) Date       { t := d.Time.AddDate(0, 0, n); return NewDate(t.Year(), t.Month(), t.Day()) }
func (d Date) Weekday() time.Weekday    { return d.Time.Weekday() }
func (d Date) String() string           { return d.Time.Format("2006-01-02") }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == `""` || s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// WEEK - Monday-anchored pay week
// =============================================================================

// Week is a Monday-to-Sunday pay week identified by its Monday.
type Week struct {
	Start Date
}

// WeekOf returns the week containing the given date.
func WeekOf(d Date) Week {
	offset := (int(d.Weekday()) - int(time.Monday) + 7) % 7
	return Week{Start: d.AddDays(-offset)}
}

func (w Week) End() Date  { return w.Start.AddDays(6) }
func (w Week) Prev() Week { return Week{Start: w.Start.AddDays(-7)} }
func (w Week) Next() Week { return Week{Start: w.Start.AddDays(7)} }

func (w Week) Contains(d Date) bool { return d.Within(w.Start, w.End()) }

func (w Week) String() string {
	return w.Start.String() + ".." + w.End().String()
}

// =============================================================================
// BUSINESS CALENDAR - The venue's fixed timezone
// =============================================================================

// DefaultTimezone is the business timezone the roster operates in.
const DefaultTimezone = "Australia/Melbourne"

// BusinessCalendar converts between stored instants and the wall-clock
// calendar the venue actually rosters in. Every local-date decision in the
// engine (which day a shift belongs to, holiday matching, date-range
// filtering) goes through this one conversion.
type BusinessCalendar struct {
	loc *time.Location
}

func NewBusinessCalendar(name string) (*BusinessCalendar, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid business timezone %q: %w", name, err)
	}
	return &BusinessCalendar{loc: loc}, nil
}

// MustBusinessCalendar is for tests and defaults where the zone is known good.
func MustBusinessCalendar(name string) *BusinessCalendar {
	cal, err := NewBusinessCalendar(name)
	if err != nil {
		panic(err)
	}
	return cal
}

// Location returns the underlying timezone.
func (c *BusinessCalendar) Location() *time.Location { return c.loc }

// DateOf returns the local calendar date an instant falls on.
func (c *BusinessCalendar) DateOf(t time.Time) Date {
	local := t.In(c.loc)
	return NewDate(local.Year(), local.Month(), local.Day())
}

// ClockOf returns the local wall-clock time of an instant as "15:04".
func (c *BusinessCalendar) ClockOf(t time.Time) string {
	return t.In(c.loc).Format("15:04")
}

// At combines a calendar date with a "15:04" wall-clock string into an
// instant in the business timezone.
func (c *BusinessCalendar) At(d Date, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(),
		t.Hour(), t.Minute(), 0, 0, c.loc), nil
}

// DayBounds returns the instant range [start, end) covering a local date.
func (c *BusinessCalendar) DayBounds(d Date) (time.Time, time.Time) {
	start := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, c.loc)
	next := d.AddDays(1)
	end := time.Date(next.Time.Year(), next.Time.Month(), next.Time.Day(), 0, 0, 0, 0, c.loc)
	return start, end
}

// RangeBounds returns the instant range [start, end) covering the inclusive
// local date range [from, to].
func (c *BusinessCalendar) RangeBounds(from, to Date) (time.Time, time.Time) {
	start, _ := c.DayBounds(from)
	_, end := c.DayBounds(to)
	return start, end
}
