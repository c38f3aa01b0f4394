package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Tiliavir/tsheet/internal/aggregate"
	"github.com/Tiliavir/tsheet/internal/export"
	"github.com/Tiliavir/tsheet/internal/model"
)

var days = []string{"Mon, 1 Jan", "Tue, 2 Jan"}

func rows() []model.TimesheetRow {
	return []model.TimesheetRow{
		{Project: "P1", Task: "T1", Times: map[string]model.DayEntry{"Mon, 1 Jan": {Time: "02:30"}}},
		{Project: "P1", Task: "T1", Times: map[string]model.DayEntry{"Tue, 2 Jan": {Time: "01:15"}}},
		{Project: "P2", Task: "T1", Times: map[string]model.DayEntry{"Tue, 2 Jan": {Time: "00:00"}}},
	}
}

func TestWeekTable(t *testing.T) {
	tbl := export.WeekTable("Week 2026-W01", rows(), days)

	wantHeader := []string{"Project", "Task", "Mon, 1 Jan", "Tue, 2 Jan", "Total"}
	if strings.Join(tbl.Header, "|") != strings.Join(wantHeader, "|") {
		t.Errorf("Header = %v, want %v", tbl.Header, wantHeader)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("Rows = %d, want 3", len(tbl.Rows))
	}
	if got := strings.Join(tbl.Rows[0], "|"); got != "P1|T1|02:30||02:30" {
		t.Errorf("Rows[0] = %q", got)
	}
	if got := strings.Join(tbl.Footer, "|"); got != "Total||02:30|01:15|03:45" {
		t.Errorf("Footer = %q", got)
	}
}

func TestGroupedTable(t *testing.T) {
	tbl := export.GroupedTable("January 2026", rows(), days)
	if len(tbl.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(tbl.Rows))
	}
	if got := strings.Join(tbl.Rows[0], "|"); got != "P1|T1|02:30|01:15|03:45" {
		t.Errorf("Rows[0] = %q", got)
	}
	if got := tbl.Footer[len(tbl.Footer)-1]; got != "03:45" {
		t.Errorf("grand total = %q, want %q", got, "03:45")
	}
}

func TestSummaryTableShowsAbsentCells(t *testing.T) {
	series := aggregate.GroupByTaskThenProject(rows(), days)
	tbl := export.SummaryTable("Summary", series, days)

	if got := strings.Join(tbl.Rows[1], "|"); got != "T1|P2|-|00:00|00:00" {
		t.Errorf("Rows[1] = %q, want absent Monday and stored zero Tuesday", got)
	}
	if got := strings.Join(tbl.Footer, "|"); got != "Total||02:30|01:15|03:45" {
		t.Errorf("Footer = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, "csv", export.WeekTable("w", rows(), days)); err != nil {
		t.Fatalf("Write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("csv lines = %d, want 5:\n%s", len(lines), buf.String())
	}
	if lines[0] != `Project,Task,"Mon, 1 Jan","Tue, 2 Jan",Total` {
		t.Errorf("csv header = %q", lines[0])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, "json", export.WeekTable("w", rows(), days)); err != nil {
		t.Fatalf("Write json: %v", err)
	}
	var got export.Table
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if got.Footer[len(got.Footer)-1] != "03:45" {
		t.Errorf("json grand total = %q", got.Footer[len(got.Footer)-1])
	}
}

func TestRender(t *testing.T) {
	out := export.Render(export.WeekTable("Week 2026-W01", rows(), days))
	for _, want := range []string{"Week 2026-W01", "Project", "02:30", "03:45"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := export.Write(&bytes.Buffer{}, "xlsx", export.Table{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
