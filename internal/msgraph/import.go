package msgraph

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/duration"
	"github.com/Tiliavir/tsheet/internal/logger"
	"github.com/Tiliavir/tsheet/internal/model"
	"github.com/Tiliavir/tsheet/internal/sheet"
)

// noSubject is the task name used for events without a subject.
const noSubject = "(no subject)"

// ImportResult holds counters for an import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   int
}

// ImportOptions configures an import run.
type ImportOptions struct {
	// Project every imported event is booked on.
	Project string
	// Location zone-less event times are read in: the zone sent to Graph in
	// the Prefer header. nil means UTC, which Graph uses without that header.
	Location *time.Location
	// DayLocation is the zone whose calendar days the week labels name.
	// nil means Location.
	DayLocation *time.Location
	// DryRun reports what would be imported without touching the week.
	DryRun bool
	// Out receives one progress line per event. nil discards them.
	Out io.Writer
}

// parseGraphTime parses a Graph API dateTime string in loc.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled, event.IsAllDay:
		return true
	case event.Sensitivity == "private", event.ShowAs == "free":
		return true
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return true
	}
	return false
}

// eventSpan returns an event's start and its length in whole minutes.
func eventSpan(event CalendarEvent, loc *time.Location) (time.Time, int, error) {
	start, err := parseGraphTime(event.Start.DateTime, loc)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, loc)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parsing end time: %w", err)
	}
	return start, int(end.Sub(start) / time.Minute), nil
}

// ImportEvents books calendar events into w. Each event adds its length to
// the day cell of the (project, subject) row, with the location as note.
// Events whose day is not one of days, or whose id is already listed in
// w.Imported, are skipped, so importing the same events twice changes nothing.
// An event longer than its start day is booked entirely on that day.
func ImportEvents(w *model.Week, days []string, events []CalendarEvent, opts ImportOptions) ImportResult {
	var res ImportResult
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	dayLoc := opts.DayLocation
	if dayLoc == nil {
		dayLoc = loc
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for _, event := range events {
		if shouldSkip(event) {
			continue
		}
		subject := event.Subject
		if subject == "" {
			subject = noSubject
		}
		if slices.Contains(w.Imported, event.ID) {
			fmt.Fprintf(out, "  – Skipped:  %s (already imported)\n", subject)
			res.Skipped++
			continue
		}

		start, minutes, err := eventSpan(event, loc)
		if err != nil {
			logger.Warn("could not map event", "id", event.ID, "err", err)
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", subject, err)
			res.Errors++
			continue
		}
		day := calendar.DayLabel(start.In(dayLoc))
		if minutes <= 0 || !slices.Contains(days, day) {
			res.Skipped++
			continue
		}

		if !opts.DryRun {
			sheet.AddTime(w, opts.Project, subject, day, minutes, event.Location.DisplayName)
			w.Imported = append(w.Imported, event.ID)
		}
		fmt.Fprintf(out, "  ✓ Imported: %s (%s, %s)\n", subject, day, duration.FromMinutes(minutes))
		res.Imported++
	}
	return res
}
