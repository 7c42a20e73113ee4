// Package tasklist owns the in-memory task sequence and mirrors it into
// a store.KV on every mutation.
package tasklist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// StorageKey is the fixed key the whole sequence is stored under.
const StorageKey = "tasks"

// createdAtLayout is ISO-8601 with milliseconds in UTC.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrEmptyText is returned by Add when the trimmed text is empty.
	ErrEmptyText = errors.New("please enter a task")
	// ErrNotLoaded is returned by mutations before Load has run.
	ErrNotLoaded = errors.New("task list not loaded")
)

// Confirmer decides whether a destructive action on task goes ahead.
type Confirmer func(task model.Task) bool

// AlwaysConfirm approves every delete.
func AlwaysConfirm(model.Task) bool { return true }

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides time.Now, used for ids and createdAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager holds the ordered task sequence and the current filter.
// It is not safe for concurrent use.
type Manager struct {
	kv     store.KV
	now    func() time.Time
	logger *log.Logger

	tasks     []model.Task
	filter    model.Filter
	lastID    int64
	justAdded int64
	loaded    bool
}

// New returns an uninitialized Manager; call Load before mutating.
func New(kv store.KV, opts ...Option) *Manager {
	m := &Manager{
		kv:     kv,
		now:    time.Now,
		logger: log.New(io.Discard),
		filter: model.FilterAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the persisted sequence. A missing key leaves the list
// empty. A malformed value is logged and also leaves the list empty;
// only store failures are returned.
func (m *Manager) Load() error {
	m.tasks = []model.Task{}
	m.lastID = 0
	m.justAdded = 0

	raw, ok, err := m.kv.Get(StorageKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", StorageKey, err)
	}
	m.loaded = true
	if !ok {
		m.logger.Debug("no stored tasks", "key", StorageKey)
		return nil
	}

	tasks, err := decodeTasks(raw)
	if err != nil {
		m.logger.Warn("discarding malformed stored tasks", "key", StorageKey, "err", err)
		return nil
	}
	m.tasks = tasks
	for _, t := range tasks {
		if t.ID > m.lastID {
			m.lastID = t.ID
		}
	}
	m.logger.Debug("loaded tasks", "count", len(tasks))
	return nil
}

// Loaded reports whether Load has completed.
func (m *Manager) Loaded() bool { return m.loaded }

// Add appends a new pending task and persists. Text is trimmed.
func (m *Manager) Add(text string) (model.Task, error) {
	if !m.loaded {
		return model.Task{}, ErrNotLoaded
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}

	now := m.now().UTC()
	id := now.UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id

	task := model.Task{
		ID:        id,
		Text:      text,
		Completed: false,
		CreatedAt: now.Format(createdAtLayout),
	}
	m.tasks = append(m.tasks, task)
	m.justAdded = id
	m.logger.Info("task added", "id", id)
	return task, m.Persist()
}

// Toggle flips completion of the task with id. It reports whether the
// task exists; an unknown id changes nothing.
func (m *Manager) Toggle(id int64) (bool, error) {
	if !m.loaded {
		return false, ErrNotLoaded
	}
	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}
	m.tasks[i].Completed = !m.tasks[i].Completed
	m.justAdded = 0
	m.logger.Info("task toggled", "id", id, "completed", m.tasks[i].Completed)
	return true, m.Persist()
}

// Delete removes the task with id when confirm approves it. It reports
// whether a task was removed. Declining is not an error; a nil confirm
// declines.
func (m *Manager) Delete(id int64, confirm Confirmer) (bool, error) {
	if !m.loaded {
		return false, ErrNotLoaded
	}
	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}
	if confirm == nil || !confirm(m.tasks[i]) {
		m.logger.Debug("delete declined", "id", id)
		return false, nil
	}
	m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
	m.justAdded = 0
	m.logger.Info("task deleted", "id", id)
	return true, m.Persist()
}

// SetFilter changes the current filter. Unknown values are kept as-is
// and behave like model.FilterAll.
func (m *Manager) SetFilter(f model.Filter) {
	m.filter = f
	m.logger.Debug("filter set", "filter", string(f))
}

// Filter returns the current filter.
func (m *Manager) Filter() model.Filter { return m.filter }

// Render returns the view for the current sequence and filter.
func (m *Manager) Render() View {
	return BuildView(m.tasks, m.filter, m.justAdded)
}

// Highlighted returns the id of the task just added, or 0.
func (m *Manager) Highlighted() int64 { return m.justAdded }

// ClearHighlight drops the just-added marker once its transition ends.
func (m *Manager) ClearHighlight() { m.justAdded = 0 }

// Stats counts the full, unfiltered sequence.
func (m *Manager) Stats() model.Stats {
	return model.ComputeStats(m.tasks)
}

// Tasks returns a copy of the sequence in display order.
func (m *Manager) Tasks() []model.Task {
	out := make([]model.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Find returns the task with id.
func (m *Manager) Find(id int64) (model.Task, bool) {
	if i := m.indexOf(id); i >= 0 {
		return m.tasks[i], true
	}
	return model.Task{}, false
}

// Persist writes the full sequence under StorageKey.
func (m *Manager) Persist() error {
	tasks := m.tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := m.kv.Set(StorageKey, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", StorageKey, err)
	}
	return nil
}

func (m *Manager) indexOf(id int64) int {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
