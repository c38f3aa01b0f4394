package cmd

import (
	"fmt"
	"time"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/model"
	"github.com/Tiliavir/tsheet/internal/storage"
)

const dateLayout = "2006-01-02"

// weekKeyFor returns the storage key of the week containing t. The key is
// taken from the week's local Monday so every day of a week shares it.
func weekKeyFor(t time.Time) string {
	return calendar.WeekKey(calendar.WeekStart(t), cfg.Calendar.UTCWeekKeys)
}

// parseDate parses a YYYY-MM-DD flag in the calendar timezone. Empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return now(), nil
	}
	d, err := time.ParseInLocation(dateLayout, s, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// monthRows loads every week touching the month at offset and returns their
// rows together with the month's day labels.
func monthRows(s storage.Store, offset int) ([]model.TimesheetRow, []string, error) {
	ref := now()
	from, to := calendar.MonthBounds(ref, offset, false)
	var keys []string
	for _, start := range calendar.WeekStarts(from, to) {
		keys = append(keys, weekKeyFor(start))
	}
	weeks, err := storage.LoadWeeks(s, keys)
	if err != nil {
		return nil, nil, err
	}
	var rows []model.TimesheetRow
	for _, w := range weeks {
		rows = append(rows, w.Rows...)
	}
	return rows, calendar.MonthDays(ref, offset), nil
}
