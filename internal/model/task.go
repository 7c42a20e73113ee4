package model

import (
	"math"
	"strings"
)

// Task is the domain model for a todo entry.
// Field names match the persisted JSON blob.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// Filters lists the filter controls in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterPending}

// ParseFilter maps s onto a Filter. Anything unrecognised is FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterCompleted:
		return FilterCompleted
	case FilterPending:
		return FilterPending
	}
	return FilterAll
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	}
	return true
}

// Label is the text shown on the filter control.
func (f Filter) Label() string {
	switch f {
	case FilterCompleted:
		return "Completed"
	case FilterPending:
		return "Pending"
	}
	return "All"
}

// Stats are counts over the full, unfiltered sequence.
type Stats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// ComputeStats counts tasks. CompletionRate is a percentage rounded to
// two decimals and zero for an empty sequence.
func ComputeStats(tasks []Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		rate := float64(s.Completed) / float64(s.Total) * 100
		s.CompletionRate = math.Round(rate*100) / 100
	}
	return s
}
