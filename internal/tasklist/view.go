package tasklist

import "github.com/Makepad-fr/tada/internal/model"

// Placeholder is shown when the filtered view has no rows.
const Placeholder = "No tasks to display"

// Row is one visible task.
type Row struct {
	ID        int64
	Text      string
	Completed bool
	// Highlight marks the row that was just added.
	Highlight bool
}

// FilterControl describes one filter button.
type FilterControl struct {
	Filter model.Filter
	Label  string
	Active bool
}

// View is a display-independent description of what to show.
type View struct {
	Filter      model.Filter
	Controls    []FilterControl
	Rows        []Row
	Stats       model.Stats
	Empty       bool
	Placeholder string
}

// BuildView maps (tasks, filter) to visible rows in sequence order.
// highlight is the id of a freshly added task, or 0.
func BuildView(tasks []model.Task, filter model.Filter, highlight int64) View {
	effective := model.ParseFilter(string(filter))
	v := View{
		Filter: filter,
		Stats:  model.ComputeStats(tasks),
		Rows:   make([]Row, 0, len(tasks)),
	}
	for _, f := range model.Filters {
		v.Controls = append(v.Controls, FilterControl{
			Filter: f,
			Label:  f.Label(),
			Active: f == effective,
		})
	}
	for _, t := range tasks {
		if !effective.Match(t) {
			continue
		}
		v.Rows = append(v.Rows, Row{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Highlight: highlight != 0 && t.ID == highlight,
		})
	}
	if len(v.Rows) == 0 {
		v.Empty = true
		v.Placeholder = Placeholder
	}
	return v
}
