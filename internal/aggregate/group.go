package aggregate

import (
	"github.com/Tiliavir/tsheet/internal/duration"
	"github.com/Tiliavir/tsheet/internal/model"
)

// Group is the merge of all rows sharing a (project, task) pair.
type Group struct {
	Project string
	Task    string
	// PerDay is aligned with the days passed to GroupByProjectTask.
	PerDay []string
	Total  string
}

type pairKey struct{ a, b string }

// GroupByProjectTask merges rows with the same project and task, summing the
// matching day entries. Groups appear in order of first occurrence.
func GroupByProjectTask(rows []model.TimesheetRow, days []string) []Group {
	index := map[pairKey]int{}
	var minutes [][]int
	var groups []Group
	for _, r := range rows {
		k := pairKey{r.Project, r.Task}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Project: r.Project, Task: r.Task})
			minutes = append(minutes, make([]int, len(days)))
		}
		for d, day := range days {
			minutes[i][d] += duration.ToMinutes(r.Times[day].Time)
		}
	}

	for i := range groups {
		groups[i].PerDay = make([]string, len(days))
		total := 0
		for d, m := range minutes[i] {
			groups[i].PerDay[d] = duration.FromMinutes(m)
			total += m
		}
		groups[i].Total = duration.FromMinutes(total)
	}
	return groups
}

// Absent marks a cell for which no row stored an entry. It is distinct from a
// stored "00:00", which is a Cell of 0.
const Absent Cell = -1

// Cell is the minutes booked in one summary cell, or Absent.
type Cell int

// IsAbsent reports whether nothing was stored for the cell.
func (c Cell) IsAbsent() bool { return c < 0 }

// Minutes returns the cell's value for summation, counting Absent as 0.
func (c Cell) Minutes() int {
	if c < 0 {
		return 0
	}
	return int(c)
}

// String renders the cell for display: "-" when absent, otherwise HH:MM.
func (c Cell) String() string {
	if c.IsAbsent() {
		return "-"
	}
	return duration.FromMinutes(int(c))
}

// Series is one (task, project) line of the summary view.
type Series struct {
	Task    string
	Project string
	// Cells keeps the absent/zero distinction, one per day.
	Cells []Cell
	// Summed is Cells with Absent counted as 0.
	Summed []int
	Total  string
}

// GroupByTaskThenProject groups rows by task and, within a task, by project.
// Tasks appear in order of first occurrence, and so do projects within a task.
func GroupByTaskThenProject(rows []model.TimesheetRow, days []string) []Series {
	var taskOrder []string
	projects := map[string][]string{}
	cells := map[pairKey][]Cell{}

	for _, r := range rows {
		if _, ok := projects[r.Task]; !ok {
			taskOrder = append(taskOrder, r.Task)
			projects[r.Task] = nil
		}
		k := pairKey{r.Task, r.Project}
		c, ok := cells[k]
		if !ok {
			projects[r.Task] = append(projects[r.Task], r.Project)
			c = make([]Cell, len(days))
			for d := range c {
				c[d] = Absent
			}
			cells[k] = c
		}
		for d, day := range days {
			e, stored := r.Times[day]
			if !stored {
				continue
			}
			c[d] = Cell(c[d].Minutes() + duration.ToMinutes(e.Time))
		}
	}

	var out []Series
	for _, task := range taskOrder {
		for _, project := range projects[task] {
			c := cells[pairKey{task, project}]
			s := Series{Task: task, Project: project, Cells: c, Summed: make([]int, len(c))}
			total := 0
			for d, cell := range c {
				s.Summed[d] = cell.Minutes()
				total += s.Summed[d]
			}
			s.Total = duration.FromMinutes(total)
			out = append(out, s)
		}
	}
	return out
}

// SeriesTotal sums every series, counting absent cells as 0.
func SeriesTotal(series []Series) string {
	total := 0
	for _, s := range series {
		for _, m := range s.Summed {
			total += m
		}
	}
	return duration.FromMinutes(total)
}
