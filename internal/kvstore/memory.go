package kvstore

import (
	"errors"
	"sync"

	"github.com/ooni/probe-bouncer/internal/model"
)

// ErrNoSuchKey indicates that there's no value for the given key.
var ErrNoSuchKey = errors.New("kvstore: no such key")

// Memory is an in-memory key-value store. The zero value is ready to use.
type Memory struct {
	// m is the underlying map.
	m map[string][]byte

	// mu provides mutual exclusion
	mu sync.Mutex
}

var _ model.KeyValueStore = &Memory{}

// Get returns a copy of the specified key's value. In case of
// error, the error type is such that errors.Is(err, ErrNoSuchKey).
func (kvs *Memory) Get(key string) ([]byte, error) {
	kvs.mu.Lock()
	defer kvs.mu.Unlock()
	value, ok := kvs.m[key]
	if !ok {
		return nil, ErrNoSuchKey
	}
	return append([]byte{}, value...), nil
}

// Set stores a copy of value under the given key.
func (kvs *Memory) Set(key string, value []byte) error {
	kvs.mu.Lock()
	defer kvs.mu.Unlock()
	if kvs.m == nil {
		kvs.m = make(map[string][]byte)
	}
	kvs.m[key] = append([]byte{}, value...)
	return nil
}
