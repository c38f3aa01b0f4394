package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/export"
)

var (
	weekOffset int
	weekFormat string
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the weekly timesheet",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

func init() {
	weekCmd.Flags().IntVarP(&weekOffset, "offset", "o", 0, "Week offset from the current week (-1 = last week)")
	weekCmd.Flags().StringVarP(&weekFormat, "format", "f", "table", "Output format: table, csv, json")
}

func runWeek(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ref := now()
	start, _ := calendar.WeekBounds(ref, weekOffset)
	days := calendar.WeekDays(ref, weekOffset)
	key := weekKeyFor(start)

	w, err := s.LoadWeek(key)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Week %s · %s – %s", key, days[0], days[len(days)-1])
	return export.Write(cmd.OutOrStdout(), weekFormat, export.WeekTable(title, w.Rows, days))
}
