package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options carries the process streams and optional overrides.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Store replaces the configured backend. Run does not close it.
	Store store.KV
	// Fetcher replaces the remote client built from config.
	Fetcher ui.Fetcher
}

func (o *Options) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Run parses global flags, then dispatches the subcommand and returns an
// exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()

	fs := flag.NewFlagSet("tada", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, rest, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			PrintHelp(opt.Stdout)
			return 0
		}
		ui.Fail(opt.Stderr, err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme)

	r := &runner{cfg: cfg, opt: opt}

	if len(rest) == 0 {
		if ui.IsTerminal(opt.Stdout) {
			return r.doTUI(ctx)
		}
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := rest[0], rest[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "add":
		return r.doAdd(a)

	case "ls", "list":
		return r.doList(a)

	case "done", "toggle":
		return r.doToggle(cmd, a)

	case "rm", "delete":
		return r.doRemove(a)

	case "stats":
		return r.doStats(a)

	case "fetch":
		return r.doFetch(ctx, a)

	case "html":
		return r.doHTML(a)

	case "tui":
		return r.doTUI(ctx)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `tada - a small to-do list

Usage:
  tada [global flags] <subcommand> [args]

Subcommands:
  add <text...>                Add a task (text can be multiple words)
  ls [-filter F] [-group]      List tasks; F is all, completed or pending
  done <ref>                   Toggle completion (alias: toggle)
  rm <ref> [-y]                Delete a task, asking first unless -y
  stats                        Show totals and completion rate
  fetch [-url URL]             Preview the remote task API response
  html [-filter F]             Write the list as an HTML page to stdout
  tui                          Interactive mode (default on a terminal)

A <ref> is a task id, or a 1-based position from 'tada ls'.

Global flags:
  -config PATH                 Config file (default ./tada.toml)
  -store json|sqlite|memory    Storage backend
  -data PATH                   Store file
  -theme classic|neon|mono     Color theme
  -log-level LEVEL             debug, info, warn or error
  -log-file PATH               Log file used by the TUI
  -remote-url URL              Remote task API
  -remote-timeout DURATION     Bound each remote fetch, e.g. 10s

Examples:
  tada add "Buy milk"
  tada ls -filter pending
  tada done 2
  tada rm -y 3
`)
}
