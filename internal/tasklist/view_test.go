package tasklist

import (
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: 1, Text: "first", Completed: true},
		{ID: 2, Text: "second"},
		{ID: 3, Text: "third", Completed: true},
		{ID: 4, Text: "fourth"},
	}
}

func TestBuildViewFilterInvariant(t *testing.T) {
	tasks := sampleTasks()
	tests := []struct {
		filter model.Filter
		want   []int64
	}{
		{model.FilterAll, []int64{1, 2, 3, 4}},
		{model.FilterCompleted, []int64{1, 3}},
		{model.FilterPending, []int64{2, 4}},
		{model.Filter("weird"), []int64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			v := BuildView(tasks, tt.filter, 0)
			if len(v.Rows) != len(tt.want) {
				t.Fatalf("rows = %+v, want ids %v", v.Rows, tt.want)
			}
			for i, r := range v.Rows {
				if r.ID != tt.want[i] {
					t.Errorf("row %d id = %d, want %d", i, r.ID, tt.want[i])
				}
				switch tt.filter {
				case model.FilterCompleted:
					if !r.Completed {
						t.Errorf("pending row %d under completed filter", r.ID)
					}
				case model.FilterPending:
					if r.Completed {
						t.Errorf("completed row %d under pending filter", r.ID)
					}
				}
			}
			if v.Stats.Total != 4 {
				t.Errorf("stats should cover the full sequence, got %+v", v.Stats)
			}
		})
	}
}

func TestBuildViewControls(t *testing.T) {
	v := BuildView(nil, model.FilterPending, 0)
	if len(v.Controls) != 3 {
		t.Fatalf("controls = %+v", v.Controls)
	}
	for _, c := range v.Controls {
		if c.Active != (c.Filter == model.FilterPending) {
			t.Errorf("control %s active=%v", c.Filter, c.Active)
		}
	}

	v = BuildView(nil, model.Filter("nope"), 0)
	if !v.Controls[0].Active {
		t.Error("unknown filter should mark All active")
	}
}

func TestBuildViewPlaceholder(t *testing.T) {
	v := BuildView(nil, model.FilterAll, 0)
	if !v.Empty || v.Placeholder != Placeholder {
		t.Errorf("empty view = %+v", v)
	}
	v = BuildView([]model.Task{{ID: 1, Text: "open"}}, model.FilterCompleted, 0)
	if !v.Empty {
		t.Error("filtered-out view should be empty")
	}
	v = BuildView([]model.Task{{ID: 1, Text: "open"}}, model.FilterPending, 0)
	if v.Empty || v.Placeholder != "" {
		t.Errorf("non-empty view = %+v", v)
	}
}
