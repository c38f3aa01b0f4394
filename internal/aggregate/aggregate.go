// Package aggregate derives row, day and grand totals from timesheet rows.
//
// Rows are read, never modified. Output order follows the days slice and the
// first occurrence of each group, so identical input yields identical output.
package aggregate

import (
	"github.com/Tiliavir/tsheet/internal/duration"
	"github.com/Tiliavir/tsheet/internal/model"
)

// Result bundles the totals of one window.
type Result struct {
	// RowTotals is aligned with the input rows.
	RowTotals   []string
	DailyTotals map[string]string
	GrandTotal  string
}

// RowTotal sums every entry of a row, whatever day it is keyed by.
func RowTotal(times map[string]model.DayEntry) string {
	total := 0
	for _, e := range times {
		total += duration.ToMinutes(e.Time)
	}
	return duration.FromMinutes(total)
}

// DailyTotals sums each day across rows. Days without entries total "00:00".
func DailyTotals(rows []model.TimesheetRow, days []string) map[string]string {
	totals := make(map[string]string, len(days))
	for _, day := range days {
		sum := 0
		for _, r := range rows {
			sum += duration.ToMinutes(r.Times[day].Time)
		}
		totals[day] = duration.FromMinutes(sum)
	}
	return totals
}

// GrandTotal sums all daily totals.
func GrandTotal(daily map[string]string) string {
	sum := 0
	for _, d := range daily {
		sum += duration.ToMinutes(d)
	}
	return duration.FromMinutes(sum)
}

// Compute returns every total for rows over days.
func Compute(rows []model.TimesheetRow, days []string) Result {
	res := Result{RowTotals: make([]string, len(rows))}
	for i, r := range rows {
		res.RowTotals[i] = RowTotal(r.Times)
	}
	res.DailyTotals = DailyTotals(rows, days)
	res.GrandTotal = GrandTotal(res.DailyTotals)
	return res
}
