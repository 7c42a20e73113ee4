// Package memstore is an in-process store.KV. Nothing survives the
// process; used for ephemeral sessions and tests.
package memstore

import (
	"sync"

	"github.com/Makepad-fr/tada/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	m      map[string]string
	closed bool
}

var _ store.KV = (*Store)(nil)

func New() *Store {
	return &Store{m: make(map[string]string)}
}

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, store.ErrClosed
	}
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	s.m[key] = value
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
