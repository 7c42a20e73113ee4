// Package htmlview renders a tasklist.View as a static HTML page.
// Task text is escaped by html/template.
package htmlview

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Makepad-fr/tada/internal/tasklist"
)

//go:embed page.html.tmpl
var pageSource string

var page = template.Must(template.New("page").Parse(pageSource))

// Render writes the page for v to w.
func Render(w io.Writer, v tasklist.View) error {
	if err := page.Execute(w, v); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
