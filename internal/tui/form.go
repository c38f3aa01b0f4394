package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// EntryForm holds the answers of the entry form.
type EntryForm struct {
	Project string
	Task    string
	Day     string
	Note    string
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewEntryForm asks for project, task, one of days and an optional note.
func NewEntryForm(days []string, fm *EntryForm) *huh.Form {
	if fm.Day == "" && len(days) > 0 {
		fm.Day = days[0]
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project").
				Value(&fm.Project).
				Validate(required("project")),
			huh.NewInput().
				Title("Task").
				Value(&fm.Task).
				Validate(required("task")),
			huh.NewSelect[string]().
				Title("Day").
				Options(huh.NewOptions(days...)...).
				Value(&fm.Day),
			huh.NewInput().
				Title("Note").
				Description("Optional").
				Value(&fm.Note),
		),
	).WithTheme(huh.ThemeDracula())
}
