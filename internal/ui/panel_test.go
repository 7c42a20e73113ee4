package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/tasklist"
)

func TestSanitize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"\x1b[31mred\x1b[0m", "red"},
		{"line\nbreak\ttab", "line break tab"},
		{"bell\a", "bell "},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(0, 0, 10); !strings.HasSuffix(got, "  0%") {
		t.Errorf("empty bar = %q", got)
	}
	if got := ProgressBar(1, 2, 10); !strings.HasPrefix(got, "█████░░░░░") || !strings.HasSuffix(got, " 50%") {
		t.Errorf("half bar = %q", got)
	}
}

func TestViewLines(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	tasks := []model.Task{
		{ID: 11, Text: "Buy milk", Completed: true},
		{ID: 12, Text: "Walk dog"},
	}
	out := strings.Join(ViewLines(tasklist.BuildView(tasks, model.FilterAll, 0), false), "\n")
	for _, want := range []string{"Todos", "Total 2", "[x] Buy milk #11", "[ ] Walk dog #12", "[1 All]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	grouped := strings.Join(ViewLines(tasklist.BuildView(tasks, model.FilterAll, 0), true), "\n")
	if strings.Index(grouped, "Walk dog") > strings.Index(grouped, "Buy milk") {
		t.Errorf("pending group should come first:\n%s", grouped)
	}

	empty := strings.Join(ViewLines(tasklist.BuildView(tasks, model.Filter("completed"), 0), false), "\n")
	if strings.Contains(empty, "Walk dog") {
		t.Errorf("completed filter shows pending task:\n%s", empty)
	}
}

func TestPanel(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "abcd"})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "+------+" || lines[1] != "| ab   |" || lines[3] != "+------+" {
		t.Errorf("panel = %q", lines)
	}
}

func TestSetThemeName(t *testing.T) {
	defer SetTheme("classic")
	tests := map[string]string{
		"mono":    "mono",
		"NEON":    "neon",
		"classic": "classic",
		"sepia":   "classic",
	}
	for in, want := range tests {
		SetTheme(in)
		if got := Current().Name; got != want {
			t.Errorf("SetTheme(%q): Name = %q, want %q", in, got, want)
		}
	}
}
