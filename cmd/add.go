package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/model"
	"github.com/Tiliavir/tsheet/internal/sheet"
	"github.com/Tiliavir/tsheet/internal/tui"
)

var addOffset int

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry interactively",
	Long: `add asks for project, task, day and note, then reads the time as
bare digits: typing 1, 3, 0 shows 00:01, 00:13, 01:30.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().IntVarP(&addOffset, "offset", "o", 0, "Week offset from the current week")
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ref := now()
	start, _ := calendar.WeekBounds(ref, addOffset)
	days := calendar.WeekDays(ref, addOffset)
	fm := tui.EntryForm{}
	if addOffset == 0 {
		fm.Day = calendar.DayLabel(ref)
	}
	if err := tui.NewEntryForm(days, &fm).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	key := weekKeyFor(start)
	w, err := s.LoadWeek(key)
	if err != nil {
		return err
	}
	existing := model.DayEntry{}
	if i := sheet.FindRow(&w, fm.Project, fm.Task); i >= 0 {
		existing = w.Rows[i].Times[fm.Day]
	}

	value, err := tui.ReadTime(fmt.Sprintf("%s / %s on %s", fm.Project, fm.Task, fm.Day), existing.Time)
	if errors.Is(err, tui.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	note := fm.Note
	if note == "" {
		note = existing.Description
	}
	sheet.SetEntry(&w, fm.Project, fm.Task, fm.Day, model.DayEntry{Time: value, Description: note})
	if err := s.SaveWeek(w); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s / %s on %s: %s\n", fm.Project, fm.Task, fm.Day, value)
	return nil
}
