package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/tasklist"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box around lines using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vis := ansi.StringWidth(ln); vis > maxw {
			maxw = vis
		}
	}
	pad := func(s string) string {
		if vis := ansi.StringWidth(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// ViewLines lays out a tasklist.View for Panel: header with counts,
// progress, filter bar, then rows. group splits rows into pending/done.
func ViewLines(v tasklist.View, group bool) []string {
	th := Current()
	s := v.Stats
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		C(th.Title, "Todos"),
		C(th.Success, th.SymDone), s.Completed,
		C(th.Pending, th.SymUnchecked), s.Pending,
		C(th.Accent, "Total"), s.Total,
	)

	lines := []string{
		header,
		C(th.Muted, ProgressBar(s.Completed, s.Total, 28)),
		FilterBar(v),
		"",
	}
	switch {
	case v.Empty:
		lines = append(lines, C(th.Muted, v.Placeholder))
	case group:
		lines = append(lines, groupLines(v.Rows)...)
	default:
		lines = append(lines, rowLines(v.Rows)...)
	}
	lines = append(lines, "")
	lines = append(lines, C(th.Muted, "Tip: add with `tada add \"Buy milk\"`"))
	return lines
}

// FilterBar renders the three filter controls, marking the active one.
func FilterBar(v tasklist.View) string {
	th := Current()
	parts := make([]string, 0, len(v.Controls))
	for i, c := range v.Controls {
		label := fmt.Sprintf("%d %s", i+1, c.Label)
		if c.Active {
			parts = append(parts, C(th.Accent, "["+label+"]"))
		} else {
			parts = append(parts, C(th.Muted, " "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

func rowLines(rows []tasklist.Row) []string {
	th := Current()
	out := make([]string, 0, len(rows))
	for i, r := range rows {
		idx := fmt.Sprintf("%2d.", i+1)
		box, color := th.BoxUnchecked, th.Muted
		if r.Completed {
			box, color = th.BoxChecked, th.Success
		}
		text := Sanitize(r.Text)
		if ansi.StringWidth(text) > 80 {
			text = ansi.Truncate(text, 80, "...")
		}
		out = append(out, fmt.Sprintf("%s %s %s %s",
			C("\033[2m", idx), C(color, box), text, C(th.Muted, fmt.Sprintf("#%d", r.ID))))
	}
	return out
}

func groupLines(rows []tasklist.Row) []string {
	var pend, done []tasklist.Row
	for _, r := range rows {
		if r.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	th := Current()
	var lines []string
	lines = append(lines, C(th.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, C(th.Muted, "(none)"))
	} else {
		lines = append(lines, rowLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, C(th.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, C(th.Muted, "(none)"))
	} else {
		lines = append(lines, rowLines(done)...)
	}
	return lines
}
