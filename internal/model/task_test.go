package model

import "testing"

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"all", FilterAll},
		{"completed", FilterCompleted},
		{"pending", FilterPending},
		{" Pending ", FilterPending},
		{"", FilterAll},
		{"archived", FilterAll},
	}
	for _, tt := range tests {
		if got := ParseFilter(tt.in); got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterMatch(t *testing.T) {
	done := Task{ID: 1, Text: "a", Completed: true}
	open := Task{ID: 2, Text: "b"}

	if !FilterAll.Match(done) || !FilterAll.Match(open) {
		t.Error("all should match every task")
	}
	if !FilterCompleted.Match(done) || FilterCompleted.Match(open) {
		t.Error("completed should only match completed tasks")
	}
	if FilterPending.Match(done) || !FilterPending.Match(open) {
		t.Error("pending should only match pending tasks")
	}
	if !Filter("bogus").Match(done) || !Filter("bogus").Match(open) {
		t.Error("unknown filter should behave like all")
	}
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		want  Stats
	}{
		{"empty", nil, Stats{}},
		{
			name:  "mixed",
			tasks: []Task{{ID: 1, Completed: true}, {ID: 2}, {ID: 3}},
			want:  Stats{Total: 3, Completed: 1, Pending: 2, CompletionRate: 33.33},
		},
		{
			name:  "all done",
			tasks: []Task{{ID: 1, Completed: true}, {ID: 2, Completed: true}},
			want:  Stats{Total: 2, Completed: 2, Pending: 0, CompletionRate: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.tasks)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.Total != got.Completed+got.Pending {
				t.Errorf("total %d != completed %d + pending %d", got.Total, got.Completed, got.Pending)
			}
		})
	}
}
