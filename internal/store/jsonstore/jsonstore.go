package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/store"
)

// JSON-backed key-value storage. Single file holding one object of
// key -> string value, human-readable and portable.
// No locking; fine for a local single-user tool.

// Store is a file-backed store.KV. Values are cached in memory and the
// whole file is rewritten on every Set.
type Store struct {
	path   string
	values map[string]string
	closed bool

	now    func() time.Time
	logger *log.Logger
	// movedTo is where an undecodable file was moved on Open.
	movedTo string
}

var _ store.KV = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report a corrupt file.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now, used to name a moved-aside file.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open reads path if it exists. A missing or empty file is an empty
// store. A file that does not decode is renamed to
// <path>.corrupt-<timestamp>, logged, and replaced by an empty store.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	s := &Store{
		path:   filepath.Clean(path),
		values: map[string]string{},
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.values); err != nil {
		if err := s.moveAside(err); err != nil {
			return nil, err
		}
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	return s, nil
}

func (s *Store) moveAside(decodeErr error) error {
	s.values = map[string]string{}
	dst := fmt.Sprintf("%s.corrupt-%s", s.path, s.now().UTC().Format("20060102T150405.000"))
	if err := os.Rename(s.path, dst); err != nil {
		return fmt.Errorf("move corrupt store %s: %w", s.path, err)
	}
	s.movedTo = dst
	s.logger.Warn("store file is corrupt, starting empty", "path", s.path, "moved_to", dst, "err", decodeErr)
	return nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// MovedTo returns where Open moved an undecodable file, or "".
func (s *Store) MovedTo() string { return s.movedTo }

func (s *Store) Get(key string) (string, bool, error) {
	if s.closed {
		return "", false, store.ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	if s.closed {
		return store.ErrClosed
	}
	prev, had := s.values[key]
	s.values[key] = value
	if err := s.save(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *Store) Close() error {
	s.closed = true
	return nil
}

// save writes to a temp file in the same dir and renames it over the
// target so a crash never leaves a half-written file.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
