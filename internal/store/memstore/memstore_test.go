package memstore

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Makepad-fr/tada/internal/store"
)

func TestGetSet(t *testing.T) {
	s := New()
	if _, ok, _ := s.Get("tasks"); ok {
		t.Fatal("new store should be empty")
	}
	if err := s.Set("tasks", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("tasks", "b"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get("tasks")
	if err != nil || !ok || v != "b" {
		t.Fatalf("Get = %q, %v, %v; want b, true, nil", v, ok, err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			_ = s.Set(key, key)
			_, _, _ = s.Get(key)
		}(i)
	}
	wg.Wait()
	for i := 0; i < 16; i++ {
		key := fmt.Sprintf("k%d", i)
		if v, ok, _ := s.Get(key); !ok || v != key {
			t.Errorf("Get(%s) = %q, %v", key, v, ok)
		}
	}
}

func TestClosed(t *testing.T) {
	s := New()
	_ = s.Close()
	if err := s.Set("k", "v"); !errors.Is(err, store.ErrClosed) {
		t.Errorf("got %v, want ErrClosed", err)
	}
}
