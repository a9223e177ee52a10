// Package bouncercache contains an on-disk cache for bouncer responses.
package bouncercache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ooni/probe-bouncer/internal/bouncer"
	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/ooni/probe-bouncer/internal/runtimex"
)

// bouncerState is the key we use to store the discovery.
const bouncerState = "bouncer.state"

// DefaultExpiry is the time after which a stored discovery expires.
const DefaultExpiry = 24 * time.Hour

var (
	// ErrNotGood indicates that we refuse to store a failed response.
	ErrNotGood = errors.New("bouncercache: refusing to store a failed response")

	// ErrExpired indicates that the stored discovery is expired.
	ErrExpired = errors.New("bouncercache: expired discovery")
)

// Entry is a discovery stored in the key-value store.
type Entry struct {
	// Expire contains the expiration date.
	Expire time.Time

	// BaseURL is the bouncer we talked to.
	BaseURL string

	// Collectors contains the collectors in the original order.
	Collectors []model.BouncerRecord

	// HelperKeys contains the helper names in the original order.
	HelperKeys []string

	// Helpers maps each helper name to its records.
	Helpers map[string][]model.BouncerRecord
}

// Store stores the given good response in the given key-value store.
func Store(kvStore model.KeyValueStore, baseURL string, resp *bouncer.Response) error {
	return store(kvStore, baseURL, resp, time.Now())
}

func store(kvStore model.KeyValueStore, baseURL string, resp *bouncer.Response, now time.Time) error {
	if !resp.Good() {
		return ErrNotGood
	}
	entry := &Entry{
		Expire:     now.Add(DefaultExpiry),
		BaseURL:    baseURL,
		Collectors: resp.Collectors(),
		HelperKeys: resp.HelperKeys(),
		Helpers:    make(map[string][]model.BouncerRecord),
	}
	for _, key := range entry.HelperKeys {
		entry.Helpers[key] = resp.Helpers(key)
	}
	data, err := json.Marshal(entry)
	runtimex.PanicOnError(err, "json.Marshal unexpectedly failed")
	return kvStore.Set(bouncerState, data)
}

// Load returns the stored discovery, if it exists and is not expired.
func Load(kvStore model.KeyValueStore) (*Entry, error) {
	return load(kvStore, time.Now())
}

func load(kvStore model.KeyValueStore, now time.Time) (*Entry, error) {
	data, err := kvStore.Get(bouncerState)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("bouncercache: cannot parse stored discovery: %w", err)
	}
	if now.After(entry.Expire) {
		return nil, ErrExpired
	}
	return &entry, nil
}
