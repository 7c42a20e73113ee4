// Package store defines the local key-value storage the task list is
// mirrored into. Backends live in subpackages.
package store

import "errors"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// KV is a string key-value store. Values are opaque blobs.
type KV interface {
	// Get returns the value under key and whether it was present.
	Get(key string) (string, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(key, value string) error
	Close() error
}
