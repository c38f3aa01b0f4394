package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/sheet"
)

var removeOffset int

var removeCmd = &cobra.Command{
	Use:     "remove <project> <task>",
	Aliases: []string{"rm"},
	Short:   "Remove a project and task row from a week",
	Args:    cobra.ExactArgs(2),
	RunE:    runRemove,
}

func init() {
	removeCmd.Flags().IntVarP(&removeOffset, "offset", "o", 0, "Week offset from the current week")
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	start, _ := calendar.WeekBounds(now(), removeOffset)
	key := weekKeyFor(start)
	w, err := s.LoadWeek(key)
	if err != nil {
		return err
	}
	i := sheet.FindRow(&w, args[0], args[1])
	if i < 0 {
		return fmt.Errorf("no row %s / %s in week %s", args[0], args[1], key)
	}
	sheet.DeleteRow(&w, w.Rows[i].ID)
	if err := s.SaveWeek(w); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s / %s from week %s\n", args[0], args[1], key)
	return nil
}
