package kvstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// ErrInvalidKey indicates that a key cannot be used as a file name.
var ErrInvalidKey = errors.New("kvstore: invalid key")

// FS is a file-system based key-value store where each
// key is a file inside the base directory. Reads and writes use
// file locking, so that concurrent command line invocations sharing
// the same state directory do not corrupt each other's state.
type FS struct {
	basedir string
}

var _ model.KeyValueStore = &FS{}

// NewFS creates a new [*FS] creating basedir if needed.
func NewFS(basedir string) (*FS, error) {
	return newFS(basedir, os.MkdirAll)
}

// osMkdirAll is the type of os.MkdirAll.
type osMkdirAll func(path string, perm fs.FileMode) error

// newFS is like NewFS with a customizable function for creating the directory.
func newFS(basedir string, mkdir osMkdirAll) (*FS, error) {
	if err := mkdir(basedir, 0700); err != nil {
		return nil, err
	}
	return &FS{basedir: basedir}, nil
}

// filename returns the filename for a given key.
func (kvs *FS) filename(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(kvs.basedir, key), nil
}

// Get returns the specified key's value. In case of error, the
// error type is such that errors.Is(err, ErrNoSuchKey).
func (kvs *FS) Get(key string) ([]byte, error) {
	filename, err := kvs.filename(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, err.Error())
	}
	data, err := lockedfile.Read(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, err.Error())
	}
	return data, nil
}

// Set sets the value of a specific key.
func (kvs *FS) Set(key string, value []byte) error {
	filename, err := kvs.filename(key)
	if err != nil {
		return err
	}
	return lockedfile.Write(filename, bytes.NewReader(value), 0600)
}
