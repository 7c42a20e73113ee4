package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/tasklist"
)

type fakeFetcher struct {
	preview *remote.Preview
	err     error
	calls   int
}

func (f *fakeFetcher) FetchTasks(context.Context) (*remote.Preview, error) {
	f.calls++
	return f.preview, f.err
}

func (f *fakeFetcher) URL() string { return "http://example.test/api/tasks" }

func newTestModel(t *testing.T, fetcher Fetcher, texts ...string) (Model, *tasklist.Manager) {
	t.Helper()
	mgr := tasklist.New(memstore.New())
	if err := mgr.Load(); err != nil {
		t.Fatal(err)
	}
	for _, s := range texts {
		if _, err := mgr.Add(s); err != nil {
			t.Fatal(err)
		}
	}
	mgr.ClearHighlight()
	return NewModel(context.Background(), mgr, fetcher), mgr
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func TestAddThroughInput(t *testing.T) {
	m, mgr := newTestModel(t, nil)

	m = send(t, m, runes("a"), runes("Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})

	tasks := mgr.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if m.ti.Value() != "" {
		t.Errorf("input not cleared: %q", m.ti.Value())
	}
	if !m.adding {
		t.Error("input should stay focused after add")
	}
	if mgr.Highlighted() != tasks[0].ID {
		t.Error("new task should be highlighted")
	}

	m = send(t, m, highlightDoneMsg{id: tasks[0].ID})
	if mgr.Highlighted() != 0 {
		t.Error("highlight should clear after the transition")
	}
}

func TestAddEmptyShowsNotice(t *testing.T) {
	m, mgr := newTestModel(t, nil)
	m = send(t, m, runes("a"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})

	if len(mgr.Tasks()) != 0 {
		t.Fatal("blank add changed state")
	}
	if m.notice != emptyTextNotice {
		t.Errorf("notice = %q", m.notice)
	}
	if !strings.Contains(m.View(), emptyTextNotice) {
		t.Error("notice not rendered")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.adding || m.notice != "" {
		t.Error("esc should leave add mode")
	}
}

func TestToggleSelected(t *testing.T) {
	m, mgr := newTestModel(t, nil, "one", "two")
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if got := mgr.Tasks(); !got[0].Completed || got[1].Completed {
		t.Fatalf("tasks = %+v", got)
	}
	if !strings.Contains(m.View(), "Total") {
		t.Error("header missing")
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	m, mgr := newTestModel(t, nil, "one", "two")

	m = send(t, m, runes("d"))
	if !m.confirming {
		t.Fatal("expected a pending confirmation")
	}
	if !strings.Contains(m.View(), "Are you sure") {
		t.Error("confirmation prompt not rendered")
	}

	m = send(t, m, runes("n"))
	if len(mgr.Tasks()) != 2 || m.confirming {
		t.Fatal("declined delete changed state")
	}

	m = send(t, m, runes("d"), runes("y"))
	if got := mgr.Tasks(); len(got) != 1 || got[0].Text != "two" {
		t.Fatalf("tasks = %+v", got)
	}
}

func TestFilterKeys(t *testing.T) {
	m, mgr := newTestModel(t, nil, "done", "open")
	first := mgr.Tasks()[0]
	if _, err := mgr.Toggle(first.ID); err != nil {
		t.Fatal(err)
	}

	m = send(t, m, runes("2"))
	if mgr.Filter() != model.FilterCompleted || len(m.view.Rows) != 1 || m.view.Rows[0].Text != "done" {
		t.Fatalf("completed view = %+v", m.view.Rows)
	}
	m = send(t, m, runes("3"))
	if len(m.view.Rows) != 1 || m.view.Rows[0].Text != "open" {
		t.Fatalf("pending view = %+v", m.view.Rows)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if mgr.Filter() != model.FilterAll || len(m.view.Rows) != 2 {
		t.Fatalf("tab from pending should wrap to all, got %s", mgr.Filter())
	}
}

func TestEmptyPlaceholder(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if !strings.Contains(m.View(), tasklist.Placeholder) {
		t.Error("placeholder not rendered for empty list")
	}
}

func TestFetchPreview(t *testing.T) {
	f := &fakeFetcher{preview: &remote.Preview{Raw: "{\n  \"tasks\": []\n}"}}
	m, mgr := newTestModel(t, f, "local")

	m = send(t, m, runes("f"))
	if !m.fetching {
		t.Fatal("expected fetch in flight")
	}
	if !strings.Contains(m.View(), loadingText) {
		t.Error("loading text missing")
	}

	msg := m.fetchCmd()()
	if f.calls != 1 {
		t.Fatalf("calls = %d", f.calls)
	}
	m = send(t, m, msg)
	if m.fetching || !strings.Contains(m.outputText, `"tasks"`) {
		t.Fatalf("outputText = %q", m.outputText)
	}
	if len(mgr.Tasks()) != 1 {
		t.Error("fetch must not touch local tasks")
	}
}

func TestFetchError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	m, _ := newTestModel(t, f)
	m = send(t, m, runes("f"), m.fetchCmd()())
	if !strings.HasPrefix(m.outputText, "Error: connection refused") {
		t.Errorf("outputText = %q", m.outputText)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestNextFilter(t *testing.T) {
	tests := map[model.Filter]model.Filter{
		model.FilterAll:       model.FilterCompleted,
		model.FilterCompleted: model.FilterPending,
		model.FilterPending:   model.FilterAll,
		model.Filter("x"):     model.FilterCompleted,
	}
	for in, want := range tests {
		if got := nextFilter(in); got != want {
			t.Errorf("nextFilter(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestDeleteTaskWithZeroID(t *testing.T) {
	kv := memstore.New()
	if err := kv.Set(tasklist.StorageKey, `[{"id":0,"text":"zero","completed":false}]`); err != nil {
		t.Fatal(err)
	}
	mgr := tasklist.New(kv)
	if err := mgr.Load(); err != nil {
		t.Fatal(err)
	}
	m := NewModel(context.Background(), mgr, nil)

	m = send(t, m, runes("d"))
	if !m.confirming {
		t.Fatal("expected a pending confirmation for id 0")
	}
	m = send(t, m, runes("y"))
	if n := len(mgr.Tasks()); n != 0 {
		t.Fatalf("tasks after confirm = %d, want 0", n)
	}
}
