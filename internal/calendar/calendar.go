// Package calendar windows time into Monday-start weeks and calendar months.
//
// Nothing here reads the wall clock: every function takes the reference time
// explicitly. Only the outermost caller asks a Clock for "now".
package calendar

import (
	"fmt"
	"time"
)

// DayLabelLayout renders a day as "Mon, 5 Jan".
const DayLabelLayout = "Mon, 2 Jan"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the real time.
var SystemClock Clock = ClockFunc(time.Now)

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// LoadLocation resolves an IANA timezone name. "" and "Local" mean the system zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// DayLabel returns the display/map key for t's calendar day.
func DayLabel(t time.Time) string {
	return t.Format(DayLabelLayout)
}

// WeekStart returns 00:00 on the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	return time.Date(t.Year(), t.Month(), t.Day()-(wd-1), 0, 0, 0, 0, t.Location())
}

// WeekBounds returns the Monday 00:00 and Sunday end-of-day of the week that
// is offset weeks away from the week containing now.
func WeekBounds(now time.Time, offset int) (time.Time, time.Time) {
	monday := WeekStart(now).AddDate(0, 0, offset*7)
	return monday, EndOfDay(monday.AddDate(0, 0, 6))
}

// WeekDays returns the seven day labels, Monday to Sunday, of the week offset
// weeks away from the week containing now.
func WeekDays(now time.Time, offset int) []string {
	monday, _ := WeekBounds(now, offset)
	days := make([]string, 7)
	for i := range days {
		days[i] = DayLabel(monday.AddDate(0, 0, i))
	}
	return days
}

// WeekKey returns a label like "2026-W09" for the week containing t.
//
// Week 1 is the Monday-start week containing January 1st, so a week that
// spans New Year belongs to the new year. With useUTC the calendar fields are
// taken from t in UTC, otherwise from t's own location.
func WeekKey(t time.Time, useUTC bool) string {
	if useUTC {
		t = t.UTC()
	}
	monday := WeekStart(t)
	year := monday.AddDate(0, 0, 6).Year()
	first := WeekStart(time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location()))
	week := 1 + daysBetween(first, monday)/7
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekStarts returns the Monday of every week overlapping [from, to].
func WeekStarts(from, to time.Time) []time.Time {
	var mondays []time.Time
	for m := WeekStart(from); !m.After(to); m = m.AddDate(0, 0, 7) {
		mondays = append(mondays, m)
	}
	return mondays
}

// MonthBounds returns the first day 00:00 and the last day end-of-day of the
// month offset months away from now's month, in now's location or in UTC.
func MonthBounds(now time.Time, offset int, useUTC bool) (time.Time, time.Time) {
	if useUTC {
		now = now.UTC()
	}
	y, m, _ := now.Date()
	first := time.Date(y, m+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
	// Day 0 of the following month is the last day of this one.
	last := time.Date(y, m+time.Month(offset)+1, 0, 0, 0, 0, 0, now.Location())
	return first, EndOfDay(last)
}

// MonthDisplayName returns e.g. "January 2026".
func MonthDisplayName(now time.Time, offset int) string {
	first, _ := MonthBounds(now, offset, false)
	return first.Format("January 2006")
}

// MonthDays returns the day labels of every day in the month.
func MonthDays(now time.Time, offset int) []string {
	first, last := MonthBounds(now, offset, false)
	var days []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, DayLabel(d))
	}
	return days
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-1), t.Location())
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
