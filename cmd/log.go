package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/duration"
	"github.com/Tiliavir/tsheet/internal/logger"
	"github.com/Tiliavir/tsheet/internal/model"
	"github.com/Tiliavir/tsheet/internal/sheet"
)

var (
	logDate string
	logNote string
)

var logCmd = &cobra.Command{
	Use:   "log <project> <task> <time>",
	Short: "Set the time of a project and task on a day",
	Long: `log sets one cell of the timesheet. The time is normalized: "1:30",
"130" and "0130" all mean 01:30, "2" means 02:00. A time of 0 without a note
clears the cell.`,
	Example: `  tsheet log ECM Review 1:30
  tsheet log ECM Review 45 --date 2026-02-23 --note "PR 12"`,
	Args: cobra.ExactArgs(3),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logDate, "date", "d", "", "Day to book (YYYY-MM-DD, default today)")
	logCmd.Flags().StringVarP(&logNote, "note", "n", "", "Description for the entry")
}

func runLog(cmd *cobra.Command, args []string) error {
	project, task, raw := args[0], args[1], args[2]
	day, err := parseDate(logDate)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	key := weekKeyFor(day)
	w, err := s.LoadWeek(key)
	if err != nil {
		return err
	}
	label := calendar.DayLabel(day)
	sheet.SetEntry(&w, project, task, label, model.DayEntry{Time: raw, Description: logNote})
	if err := s.SaveWeek(w); err != nil {
		return err
	}
	logger.Info("entry set", "week", key, "day", label, "project", project, "task", task)

	fmt.Fprintf(cmd.OutOrStdout(), "%s / %s on %s: %s\n", project, task, label, duration.Normalize(raw))
	return nil
}
