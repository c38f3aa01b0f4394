package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/aggregate"
	"github.com/Tiliavir/tsheet/internal/calendar"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's and this week's totals",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ref := now()
	key := weekKeyFor(ref)
	w, err := s.LoadWeek(key)
	if err != nil {
		return err
	}
	days := calendar.WeekDays(ref, 0)
	res := aggregate.Compute(w.Rows, days)
	today := calendar.DayLabel(ref)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Week %s\n", key)
	fmt.Fprintf(out, "  Today (%s): %s\n", today, res.DailyTotals[today])
	fmt.Fprintf(out, "  This week:  %s\n", res.GrandTotal)
	return nil
}
