package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/tasklist"
)

const (
	highlightDuration = 300 * time.Millisecond
	emptyTextNotice   = "Please enter a task!"
	deletePrompt      = "Are you sure you want to delete this task? (y/n)"
	loadingText       = "Loading..."
)

// Fetcher performs the remote preview read.
type Fetcher interface {
	FetchTasks(ctx context.Context) (*remote.Preview, error)
	URL() string
}

// rowItem adapts a view row to bubbles/list.Item.
type rowItem struct{ tasklist.Row }

func (i rowItem) FilterValue() string { return i.Text }

// Custom delegate to control how rows render (single line)
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	text := Sanitize(it.Text)
	switch {
	case it.Completed:
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	case it.Highlight:
		text = highlightStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+box+" "+text)
}

type keyMap struct {
	add        key.Binding
	toggle     key.Binding
	del        key.Binding
	all        key.Binding
	completed  key.Binding
	pending    key.Binding
	nextFilter key.Binding
	fetch      key.Binding
	scrollDown key.Binding
	scrollUp   key.Binding
	quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		add:        key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "add")),
		toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		del:        key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		all:        key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		completed:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "completed")),
		pending:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "pending")),
		nextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		fetch:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch API")),
		scrollDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J/K", "scroll response")),
		scrollUp:   key.NewBinding(key.WithKeys("K")),
		quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.add, k.toggle, k.del, k.all, k.completed, k.pending, k.fetch, k.scrollDown, k.quit}
}

type highlightDoneMsg struct{ id int64 }

type fetchResultMsg struct {
	preview *remote.Preview
	err     error
}

// Option configures the TUI model.
type Option func(*Model)

// WithFetchTimeout bounds each remote fetch; zero means no limit.
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Model) {
		m.timeout = d
	}
}

// WithLogger sets the logger used for TUI events.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Model is the Bubble Tea model over a loaded tasklist.Manager.
type Model struct {
	ctx     context.Context
	mgr     *tasklist.Manager
	fetcher Fetcher
	timeout time.Duration
	logger  *log.Logger
	keys    keyMap

	view tasklist.View
	list list.Model

	// Inline add
	adding bool
	ti     textinput.Model
	notice string

	// Pending delete confirmation.
	confirming bool
	confirmID  int64

	// Remote preview
	fetching   bool
	spin       spinner.Model
	output     viewport.Model
	outputText string

	width, height int
	err           error
}

// NewModel builds the TUI model. mgr must already be loaded; fetcher
// may be nil to disable the remote preview.
func NewModel(ctx context.Context, mgr *tasklist.Manager, fetcher Fetcher, opts ...Option) Model {
	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = helpStyle

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	m := Model{
		ctx:     ctx,
		mgr:     mgr,
		fetcher: fetcher,
		logger:  log.New(io.Discard),
		keys:    defaultKeys(),
		list:    l,
		ti:      ti,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		output:  viewport.New(0, 0),
		width:   80,
		height:  24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resize()
	m.refresh()
	return m
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.resize()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case highlightDoneMsg:
		if m.mgr.Highlighted() == msg.id {
			m.mgr.ClearHighlight()
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case fetchResultMsg:
		m.fetching = false
		if msg.err != nil {
			m.logger.Warn("remote fetch failed", "err", msg.err)
			m.outputText = remote.ErrorText(m.fetcher.URL(), msg.err)
		} else {
			m.outputText = msg.preview.Raw
		}
		m.output.SetContent(m.outputText)
		m.output.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.adding:
			return m.updateAdding(msg)
		case m.confirming:
			return m.updateConfirm(msg)
		}
		return m.updateBrowsing(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.adding {
		m.ti, cmd = m.ti.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateAdding(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		task, err := m.mgr.Add(m.ti.Value())
		if errors.Is(err, tasklist.ErrEmptyText) {
			m.notice = emptyTextNotice
			return m, nil
		}
		m.err = err
		if task.ID == 0 {
			return m, nil
		}
		m.ti.SetValue("")
		m.notice = ""
		m.refresh()
		m.selectID(task.ID)
		return m, highlightCmd(task.ID)
	case "esc":
		m.adding = false
		m.notice = ""
		m.ti.SetValue("")
		m.ti.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
		answer = false
	default:
		return m, nil
	}
	id := m.confirmID
	m.confirming, m.confirmID = false, 0
	_, m.err = m.mgr.Delete(id, func(model.Task) bool { return answer })
	m.refresh()
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.add):
		m.adding = true
		m.notice = ""
		return m, m.ti.Focus()

	case key.Matches(msg, m.keys.toggle):
		if id, ok := m.selectedID(); ok {
			_, m.err = m.mgr.Toggle(id)
			m.refresh()
			m.selectID(id)
		}
		return m, nil

	case key.Matches(msg, m.keys.del):
		if id, ok := m.selectedID(); ok {
			m.confirming, m.confirmID = true, id
		}
		return m, nil

	case key.Matches(msg, m.keys.all):
		m.setFilter(model.FilterAll)
		return m, nil
	case key.Matches(msg, m.keys.completed):
		m.setFilter(model.FilterCompleted)
		return m, nil
	case key.Matches(msg, m.keys.pending):
		m.setFilter(model.FilterPending)
		return m, nil
	case key.Matches(msg, m.keys.nextFilter):
		m.setFilter(nextFilter(m.mgr.Filter()))
		return m, nil

	case key.Matches(msg, m.keys.fetch):
		if m.fetcher == nil || m.fetching {
			return m, nil
		}
		m.fetching = true
		m.outputText = loadingText
		m.output.SetContent(m.outputText)
		return m, tea.Batch(m.spin.Tick, m.fetchCmd())

	case key.Matches(msg, m.keys.scrollDown):
		m.output.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.scrollUp):
		m.output.LineUp(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	sections := []string{m.headerView(), m.filterView(), ""}

	if m.view.Empty {
		sections = append(sections, mutedStyle.Render(m.view.Placeholder))
	} else {
		sections = append(sections, m.list.View())
	}

	if m.adding {
		title := "Add new task"
		if m.notice != "" {
			title += "  " + errorStyle.Render(m.notice)
		}
		sections = append(sections, boxStyle.Render(title+"\n"+m.ti.View()))
	}
	if m.confirming {
		line := errorStyle.Render(deletePrompt)
		if t, ok := m.mgr.Find(m.confirmID); ok {
			line += " " + mutedStyle.Render(Sanitize(t.Text))
		}
		sections = append(sections, line)
	}
	if m.fetching || m.outputText != "" {
		body := m.output.View()
		if m.fetching {
			body = m.spin.View() + " " + loadingText
		}
		sections = append(sections, boxStyle.Render(accentStyle.Render("API response")+"\n"+body))
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render("✖ "+m.err.Error()))
	}
	sections = append(sections, m.helpView())
	return panelString(strings.Join(sections, "\n"))
}

func (m Model) headerView() string {
	s := m.view.Stats
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), s.Completed,
		pendingStyle.Render("•"), s.Pending,
		accentStyle.Render("Total"), s.Total,
		mutedStyle.Render(ProgressBar(s.Completed, s.Total, 20)),
	)
}

func (m Model) filterView() string {
	parts := make([]string, 0, len(m.view.Controls))
	for i, c := range m.view.Controls {
		label := fmt.Sprintf("%d %s", i+1, c.Label)
		if c.Active {
			parts = append(parts, activeFilterStyle.Render(label))
		} else {
			parts = append(parts, filterStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) helpView() string {
	parts := make([]string, 0, len(m.keys.short()))
	for _, b := range m.keys.short() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

func (m *Model) setFilter(f model.Filter) {
	m.mgr.SetFilter(f)
	m.refresh()
}

// refresh rebuilds the view and list items from the manager.
func (m *Model) refresh() {
	m.view = m.mgr.Render()
	items := make([]list.Item, 0, len(m.view.Rows))
	for _, r := range m.view.Rows {
		items = append(items, rowItem{r})
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) resize() {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	outputHeight := 8
	listHeight := h - 10
	if m.adding {
		listHeight -= 4
	}
	if m.fetching || m.outputText != "" {
		listHeight -= outputHeight + 3
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(w-4, listHeight)
	m.ti.Width = w - 12
	m.output.Width = w - 8
	m.output.Height = outputHeight
}

func (m Model) selectedID() (int64, bool) {
	it, ok := m.list.SelectedItem().(rowItem)
	if !ok {
		return 0, false
	}
	return it.ID, true
}

func (m *Model) selectID(id int64) {
	for i, r := range m.view.Rows {
		if r.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) fetchCmd() tea.Cmd {
	ctx, fetcher, timeout := m.ctx, m.fetcher, m.timeout
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		p, err := fetcher.FetchTasks(ctx)
		return fetchResultMsg{preview: p, err: err}
	}
}

func highlightCmd(id int64) tea.Cmd {
	return tea.Tick(highlightDuration, func(time.Time) tea.Msg {
		return highlightDoneMsg{id: id}
	})
}

func nextFilter(f model.Filter) model.Filter {
	cur := model.ParseFilter(string(f))
	for i, candidate := range model.Filters {
		if candidate == cur {
			return model.Filters[(i+1)%len(model.Filters)]
		}
	}
	return model.FilterAll
}
