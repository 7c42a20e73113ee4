package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// IsTerminal reports whether w is a character device.
func IsTerminal(w io.Writer) bool { return isTTY(w) }

func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY(os.Stdout) {
		return color + s + reset
	}
	return s
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(fgGreen, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(fgRed, symCross+" "+msg)) }

// Sanitize makes user text safe to print on a terminal: control
// characters become spaces and escape sequences are stripped.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r != '\x1b' && unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return ansi.Strip(s)
}
