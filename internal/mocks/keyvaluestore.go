package mocks

import "github.com/ooni/probe-bouncer/internal/model"

// KeyValueStore allows mocking a [model.KeyValueStore].
type KeyValueStore struct {
	MockGet func(key string) (value []byte, err error)

	MockSet func(key string, value []byte) (err error)
}

var _ model.KeyValueStore = &KeyValueStore{}

// Get calls MockGet.
func (kvs *KeyValueStore) Get(key string) (value []byte, err error) {
	return kvs.MockGet(key)
}

// Set calls MockSet.
func (kvs *KeyValueStore) Set(key string, value []byte) (err error) {
	return kvs.MockSet(key, value)
}
