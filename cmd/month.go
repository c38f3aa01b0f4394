package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/export"
)

var (
	monthOffset int
	monthFormat string
)

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show the month grouped by project and task",
	Args:  cobra.NoArgs,
	RunE:  runMonth,
}

func init() {
	monthCmd.Flags().IntVarP(&monthOffset, "offset", "o", 0, "Month offset from the current month")
	monthCmd.Flags().StringVarP(&monthFormat, "format", "f", "table", "Output format: table, csv, json")
}

func runMonth(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rows, days, err := monthRows(s, monthOffset)
	if err != nil {
		return err
	}
	title := calendar.MonthDisplayName(now(), monthOffset)
	return export.Write(cmd.OutOrStdout(), monthFormat, export.GroupedTable(title, rows, days))
}
