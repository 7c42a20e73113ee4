package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/render/htmlview"
	"github.com/Makepad-fr/tada/internal/tasklist"
	"github.com/Makepad-fr/tada/internal/ui"
)

const deletePrompt = "Are you sure you want to delete this task? [y/N] "

func (r *runner) doAdd(a []string) int {
	text := strings.Join(a, " ")
	return r.withManager(r.stderrLogger(), func(mgr *tasklist.Manager) int {
		t, err := mgr.Add(text)
		if errors.Is(err, tasklist.ErrEmptyText) {
			ui.Fail(r.opt.Stderr, "Please enter a task!")
			return 2
		}
		if err != nil {
			ui.Fail(r.opt.Stderr, "add: "+err.Error())
			return 1
		}
		ui.OK(r.opt.Stdout, fmt.Sprintf("added #%d %s", t.ID, ui.Sanitize(t.Text)))
		return 0
	})
}

func (r *runner) doList(a []string) int {
	fs := newFlagSet("ls")
	filter := fs.String("filter", string(model.FilterAll), "all, completed or pending")
	group := fs.Bool("group", false, "group output by pending/done")
	if _, code := r.parse(fs, a, 0); code >= 0 {
		return code
	}
	f, ok := parseFilter(*filter)
	if !ok {
		ui.Fail(r.opt.Stderr, "ls: unknown filter: "+*filter)
		return 2
	}
	return r.withManager(r.stderrLogger(), func(mgr *tasklist.Manager) int {
		mgr.SetFilter(f)
		ui.Panel(r.opt.Stdout, ui.ViewLines(mgr.Render(), *group))
		return 0
	})
}

func (r *runner) doToggle(cmd string, a []string) int {
	fs := newFlagSet(cmd)
	args, code := r.parse(fs, a, 1)
	if code >= 0 {
		return code
	}
	return r.withManager(r.stderrLogger(), func(mgr *tasklist.Manager) int {
		id, ok := resolveRef(mgr, args[0])
		if !ok {
			r.badRef(cmd, args[0])
			return 2
		}
		if _, err := mgr.Toggle(id); err != nil {
			ui.Fail(r.opt.Stderr, cmd+": "+err.Error())
			return 1
		}
		t, _ := mgr.Find(id)
		state := "pending"
		if t.Completed {
			state = "done"
		}
		ui.OK(r.opt.Stdout, fmt.Sprintf("marked #%d %s", id, state))
		return 0
	})
}

func (r *runner) doRemove(a []string) int {
	fs := newFlagSet("rm")
	yes := fs.Bool("y", false, "do not ask for confirmation")
	args, code := r.parse(fs, a, 1)
	if code >= 0 {
		return code
	}
	return r.withManager(r.stderrLogger(), func(mgr *tasklist.Manager) int {
		id, ok := resolveRef(mgr, args[0])
		if !ok {
			r.badRef("rm", args[0])
			return 2
		}
		confirm := tasklist.AlwaysConfirm
		if !*yes {
			confirm = promptConfirmer(r.opt.Stdin, r.opt.Stdout)
		}
		deleted, err := mgr.Delete(id, confirm)
		if err != nil {
			ui.Fail(r.opt.Stderr, "rm: "+err.Error())
			return 1
		}
		if !deleted {
			fmt.Fprintln(r.opt.Stdout, "kept")
			return 0
		}
		ui.OK(r.opt.Stdout, fmt.Sprintf("removed #%d", id))
		return 0
	})
}

func (r *runner) doStats(a []string) int {
	if _, code := r.parse(newFlagSet("stats"), a, 0); code >= 0 {
		return code
	}
	return r.withManager(r.stderrLogger(), func(mgr *tasklist.Manager) int {
		s := mgr.Stats()
		fmt.Fprintf(r.opt.Stdout, "Total: %d\nCompleted: %d\nPending: %d\nCompletion rate: %.2f%%\n",
			s.Total, s.Completed, s.Pending, s.CompletionRate)
		return 0
	})
}

func (r *runner) doFetch(ctx context.Context, a []string) int {
	fs := newFlagSet("fetch")
	url := fs.String("url", "", "remote task API URL")
	if _, code := r.parse(fs, a, 0); code >= 0 {
		return code
	}
	f := r.fetcher(*url, r.stderrLogger())
	p, err := f.FetchTasks(ctx)
	if err != nil {
		fmt.Fprintln(r.opt.Stderr, remote.ErrorText(f.URL(), err))
		return 1
	}
	th := ui.Current()
	fmt.Fprintln(r.opt.Stdout, ui.C(th.Muted, fmt.Sprintf("GET %s -> %d", p.URL, p.Status)))
	if p.Success != nil || p.Total != nil {
		fmt.Fprintln(r.opt.Stdout, ui.C(th.Muted, envelopeSummary(p)))
	}
	fmt.Fprintln(r.opt.Stdout, p.Raw)
	return 0
}

func (r *runner) doHTML(a []string) int {
	fs := newFlagSet("html")
	filter := fs.String("filter", string(model.FilterAll), "all, completed or pending")
	if _, code := r.parse(fs, a, 0); code >= 0 {
		return code
	}
	f, ok := parseFilter(*filter)
	if !ok {
		ui.Fail(r.opt.Stderr, "html: unknown filter: "+*filter)
		return 2
	}
	return r.withManager(r.stderrLogger(), func(mgr *tasklist.Manager) int {
		mgr.SetFilter(f)
		if err := htmlview.Render(r.opt.Stdout, mgr.Render()); err != nil {
			ui.Fail(r.opt.Stderr, "html: "+err.Error())
			return 1
		}
		return 0
	})
}

func (r *runner) doTUI(ctx context.Context) int {
	if !ui.IsTerminal(r.opt.Stdout) {
		ui.Fail(r.opt.Stderr, "tui: stdout is not a terminal")
		return 2
	}
	opts := logging.DefaultOptions()
	opts.Level = r.cfg.Level()
	logger, closer, err := logging.OpenFile(r.logFile(), opts)
	if err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		return 1
	}
	defer closer.Close()

	logger.Info("starting tui", "theme", ui.Current().Name, "store", r.cfg.Store)
	return r.withManager(logger, func(mgr *tasklist.Manager) int {
		m := ui.NewModel(ctx, mgr, r.fetcher("", logger),
			ui.WithFetchTimeout(r.cfg.Timeout()),
			ui.WithLogger(logger),
		)
		if err := ui.Run(ctx, m); err != nil {
			ui.Fail(r.opt.Stderr, "tui: "+err.Error())
			return 1
		}
		return 0
	})
}

// -------------- helpers ----------------

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse reads flags placed before or after positional arguments and
// checks that exactly want positionals remain. code is -1 on success.
func (r *runner) parse(fs *flag.FlagSet, a []string, want int) (args []string, code int) {
	for {
		if err := fs.Parse(a); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				r.usage(fs)
				return nil, 0
			}
			ui.Fail(r.opt.Stderr, fs.Name()+": "+err.Error())
			return nil, 2
		}
		if fs.NArg() == 0 {
			break
		}
		args = append(args, fs.Arg(0))
		a = fs.Args()[1:]
	}
	if len(args) != want {
		r.usage(fs)
		return nil, 2
	}
	return args, -1
}

func (r *runner) usage(fs *flag.FlagSet) {
	line := "usage: tada " + fs.Name()
	fs.VisitAll(func(f *flag.Flag) {
		line += " [-" + f.Name + "]"
	})
	switch fs.Name() {
	case "done", "toggle", "rm":
		line += " <ref>"
	}
	ui.Fail(r.opt.Stderr, line)
}

func (r *runner) badRef(cmd, ref string) {
	ui.Fail(r.opt.Stderr, fmt.Sprintf("%s: no task with id or position %s", cmd, ref))
	fmt.Fprintln(r.opt.Stderr, ui.C(ui.Current().Muted, "Hint: run `tada ls` to see tasks"))
}

// resolveRef maps a 1-based position or a task id to an id.
func resolveRef(mgr *tasklist.Manager, ref string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimPrefix(ref, "#"), 10, 64)
	if err != nil {
		return 0, false
	}
	tasks := mgr.Tasks()
	if !strings.HasPrefix(ref, "#") && n >= 1 && n <= int64(len(tasks)) {
		return tasks[n-1].ID, true
	}
	if _, ok := mgr.Find(n); ok {
		return n, true
	}
	return 0, false
}

func parseFilter(s string) (model.Filter, bool) {
	f := model.ParseFilter(s)
	return f, string(f) == strings.ToLower(strings.TrimSpace(s))
}

// promptConfirmer asks on out and reads one answer line from in.
func promptConfirmer(in io.Reader, out io.Writer) tasklist.Confirmer {
	br := bufio.NewReader(in)
	return func(t model.Task) bool {
		fmt.Fprintf(out, "#%d %s\n%s", t.ID, ui.Sanitize(t.Text), deletePrompt)
		line, _ := br.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func envelopeSummary(p *remote.Preview) string {
	var parts []string
	if p.Success != nil {
		parts = append(parts, "success="+strconv.FormatBool(*p.Success))
	}
	if p.Total != nil {
		parts = append(parts, "total="+strconv.Itoa(*p.Total))
	}
	return strings.Join(parts, " ")
}
