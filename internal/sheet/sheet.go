// Package sheet edits the rows of a stored week.
package sheet

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Tiliavir/tsheet/internal/aggregate"
	"github.com/Tiliavir/tsheet/internal/duration"
	"github.com/Tiliavir/tsheet/internal/model"
)

// NewID returns a fresh row id.
var NewID = uuid.NewString

// FindRow returns the index of the row for project and task, or -1.
func FindRow(w *model.Week, project, task string) int {
	for i, r := range w.Rows {
		if r.Project == project && r.Task == task {
			return i
		}
	}
	return -1
}

func ensureRow(w *model.Week, project, task string) *model.TimesheetRow {
	if i := FindRow(w, project, task); i >= 0 {
		return &w.Rows[i]
	}
	w.Rows = append(w.Rows, model.TimesheetRow{
		ID:      NewID(),
		Project: project,
		Task:    task,
		Times:   map[string]model.DayEntry{},
		Total:   duration.Zero,
	})
	return &w.Rows[len(w.Rows)-1]
}

// SetEntry replaces the day's entry on the (project, task) row, creating the
// row when needed. The time is normalized. An entry with no time and no
// description clears the cell.
func SetEntry(w *model.Week, project, task, day string, e model.DayEntry) {
	e.Time = duration.Normalize(e.Time)
	if e.Time == duration.Zero && e.Description == "" {
		i := FindRow(w, project, task)
		if i < 0 {
			return
		}
		row := &w.Rows[i]
		delete(row.Times, day)
		row.Total = aggregate.RowTotal(row.Times)
		return
	}

	row := ensureRow(w, project, task)
	if row.Times == nil {
		row.Times = map[string]model.DayEntry{}
	}
	row.Times[day] = e
	row.Total = aggregate.RowTotal(row.Times)
}

// AddTime adds minutes to the day's entry on the (project, task) row. A note
// not yet part of the description is appended on its own line.
func AddTime(w *model.Week, project, task, day string, minutes int, note string) {
	row := ensureRow(w, project, task)
	if row.Times == nil {
		row.Times = map[string]model.DayEntry{}
	}
	e := row.Times[day]
	e.Time = duration.FromMinutes(duration.ToMinutes(e.Time) + minutes)
	if note != "" && !containsLine(e.Description, note) {
		if e.Description != "" {
			e.Description += "\n"
		}
		e.Description += note
	}
	row.Times[day] = e
	row.Total = aggregate.RowTotal(row.Times)
}

// DeleteRow removes the row with the given id and reports whether it existed.
func DeleteRow(w *model.Week, id string) bool {
	for i, r := range w.Rows {
		if r.ID == id {
			w.Rows = append(w.Rows[:i], w.Rows[i+1:]...)
			return true
		}
	}
	return false
}

func containsLine(text, line string) bool {
	return slices.Contains(strings.Split(text, "\n"), line)
}
