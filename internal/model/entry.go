package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DayEntry is the time booked on one row for one day.
type DayEntry struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts both the current object shape and the legacy shape
// where a day held a bare "HH:MM" string. Any other JSON value decodes to an
// empty entry so one bad cell does not make the whole week unreadable.
func (e *DayEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*e = DayEntry{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = DayEntry{Time: s}
		return nil
	case len(data) > 0 && data[0] == '{':
		type plain DayEntry
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*e = DayEntry(p)
		return nil
	}
	if !json.Valid(data) {
		return fmt.Errorf("invalid day entry %q", data)
	}
	*e = DayEntry{}
	return nil
}

// TimesheetRow is one (project, task) line of a week, keyed by day label.
type TimesheetRow struct {
	ID      string              `json:"id"`
	Project string              `json:"project"`
	Task    string              `json:"task"`
	Times   map[string]DayEntry `json:"times"`
	Total   string              `json:"total"`
}

// Week is the stored document for one week key.
type Week struct {
	Key  string         `json:"key"`
	Rows []TimesheetRow `json:"rows"`
	// Imported holds ids of external calendar events already booked.
	Imported []string `json:"imported,omitempty"`
	// UpdatedAt is set when a cached store saves the week; it tells which
	// copy is newer after the database was unreachable.
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
