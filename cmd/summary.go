package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/aggregate"
	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/export"
	"github.com/Tiliavir/tsheet/internal/model"
)

var (
	summaryOffset int
	summaryMonth  bool
	summaryFormat string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show time per task and project",
	Long: `summary lists every task with one line per project it was booked on.
Days without a booking show "-", booked zero times show "00:00".`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVarP(&summaryOffset, "offset", "o", 0, "Week (or month with --month) offset")
	summaryCmd.Flags().BoolVar(&summaryMonth, "month", false, "Summarize a month instead of a week")
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "table", "Output format: table, csv, json")
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var (
		rows  []model.TimesheetRow
		days  []string
		title string
	)
	if summaryMonth {
		rows, days, err = monthRows(s, summaryOffset)
		if err != nil {
			return err
		}
		title = "Summary " + calendar.MonthDisplayName(now(), summaryOffset)
	} else {
		start, _ := calendar.WeekBounds(now(), summaryOffset)
		key := weekKeyFor(start)
		w, err := s.LoadWeek(key)
		if err != nil {
			return err
		}
		rows, days = w.Rows, calendar.WeekDays(now(), summaryOffset)
		title = fmt.Sprintf("Summary %s", key)
	}

	series := aggregate.GroupByTaskThenProject(rows, days)
	return export.Write(cmd.OutOrStdout(), summaryFormat, export.SummaryTable(title, series, days))
}
