// Package export turns aggregated timesheets into plain tables and writes them
// as CSV, JSON or a terminal table.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Tiliavir/tsheet/internal/aggregate"
	"github.com/Tiliavir/tsheet/internal/duration"
	"github.com/Tiliavir/tsheet/internal/model"
)

// Table is row/column data plus a totals footer, ready for any writer.
type Table struct {
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	Footer []string   `json:"footer"`
}

// WeekTable builds one line per stored row with its per-day times, the row
// total, and a footer of daily totals and the grand total.
func WeekTable(title string, rows []model.TimesheetRow, days []string) Table {
	res := aggregate.Compute(rows, days)
	t := Table{Title: title, Header: header(days)}
	for i, r := range rows {
		line := []string{r.Project, r.Task}
		for _, day := range days {
			line = append(line, r.Times[day].Time)
		}
		t.Rows = append(t.Rows, append(line, res.RowTotals[i]))
	}
	t.Footer = footer(days, res.DailyTotals, res.GrandTotal)
	return t
}

// GroupedTable builds one line per (project, task) pair, merging rows.
func GroupedTable(title string, rows []model.TimesheetRow, days []string) Table {
	daily := aggregate.DailyTotals(rows, days)
	t := Table{Title: title, Header: header(days)}
	for _, g := range aggregate.GroupByProjectTask(rows, days) {
		line := append([]string{g.Project, g.Task}, g.PerDay...)
		t.Rows = append(t.Rows, append(line, g.Total))
	}
	t.Footer = footer(days, daily, aggregate.GrandTotal(daily))
	return t
}

// SummaryTable builds the task-then-project view. Days nothing was booked on
// show "-", booked zeros show "00:00".
func SummaryTable(title string, series []aggregate.Series, days []string) Table {
	t := Table{Title: title, Header: append(append([]string{"Task", "Project"}, days...), "Total")}
	dayMinutes := make([]int, len(days))
	for _, s := range series {
		line := []string{s.Task, s.Project}
		for d, c := range s.Cells {
			line = append(line, c.String())
			dayMinutes[d] += s.Summed[d]
		}
		t.Rows = append(t.Rows, append(line, s.Total))
	}
	t.Footer = []string{"Total", ""}
	for _, m := range dayMinutes {
		t.Footer = append(t.Footer, duration.FromMinutes(m))
	}
	t.Footer = append(t.Footer, aggregate.SeriesTotal(series))
	return t
}

func header(days []string) []string {
	return append(append([]string{"Project", "Task"}, days...), "Total")
}

func footer(days []string, daily map[string]string, grand string) []string {
	f := []string{"Total", ""}
	for _, day := range days {
		f = append(f, daily[day])
	}
	return append(f, grand)
}

// WriteCSV writes header, rows and footer as CSV.
func WriteCSV(w io.Writer, t Table) error {
	lines := append([][]string{t.Header}, t.Rows...)
	lines = append(lines, t.Footer)
	for _, line := range lines {
		fields := make([]string, len(line))
		for i, f := range line {
			fields[i] = csvEscape(f)
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteJSON writes the table as indented JSON.
func WriteJSON(w io.Writer, t Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Render draws the table for a terminal.
func Render(t Table) string {
	last := len(t.Rows)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(t.Header...).
		Rows(t.Rows...).
		Row(t.Footer...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == last:
				return footerStyle
			default:
				return cellStyle
			}
		})
	return titleStyle.Render(t.Title) + "\n" + tbl.String()
}

// Write renders t in the named format: "table", "csv" or "json".
func Write(w io.Writer, format string, t Table) error {
	switch format {
	case "csv":
		return WriteCSV(w, t)
	case "json":
		return WriteJSON(w, t)
	case "table", "md", "":
		_, err := fmt.Fprintln(w, Render(t))
		return err
	}
	return fmt.Errorf("unknown format %q (want table, csv or json)", format)
}
