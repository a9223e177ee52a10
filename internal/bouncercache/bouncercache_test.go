package bouncercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ooni/probe-bouncer/internal/bouncer"
	"github.com/ooni/probe-bouncer/internal/kvstore"
	"github.com/ooni/probe-bouncer/internal/mocks"
	"github.com/ooni/probe-bouncer/internal/model"
)

// newResponse returns a bouncer response for the given body and status code.
func newResponse(status int64, body string) *bouncer.Response {
	exch := &mocks.HTTPExchanger{
		MockExchange: func(ctx context.Context, req *model.HTTPExchangeRequest) *model.HTTPExchangeResponse {
			return &model.HTTPExchangeResponse{StatusCode: status, Body: []byte(body)}
		},
	}
	return bouncer.NewClient(exch, model.DiscardLogger).Perform(context.Background(), bouncer.NewRequest())
}

const sampleBody = `{"net-tests":[{"collector":"httpo://42q7ug46dspcsvkw.onion",` +
	`"test-helpers":{"tcp-echo":"37.218.241.94","web-connectivity":"httpo://y3zq5fwelrzkkv3s.onion"},` +
	`"test-helpers-alternate":{"web-connectivity":[{"type":"cloudfront",` +
	`"address":"https://d2vt18apel48hw.cloudfront.net","front":"a0.awsstatic.com"}]}}]}`

func TestStoreAndLoad(t *testing.T) {
	t.Run("we can load what we stored", func(t *testing.T) {
		kvs := &kvstore.Memory{}
		now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		if err := store(kvs, "https://bouncer.ooni.io", newResponse(200, sampleBody), now); err != nil {
			t.Fatal(err)
		}
		entry, err := load(kvs, now.Add(time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		expect := &Entry{
			Expire:  now.Add(DefaultExpiry),
			BaseURL: "https://bouncer.ooni.io",
			Collectors: []model.BouncerRecord{{
				Type:    "onion",
				Address: "httpo://42q7ug46dspcsvkw.onion",
			}},
			HelperKeys: []string{"tcp-echo", "web-connectivity"},
			Helpers: map[string][]model.BouncerRecord{
				"tcp-echo": {{Address: "37.218.241.94"}},
				"web-connectivity": {{
					Address: "httpo://y3zq5fwelrzkkv3s.onion",
				}, {
					Type:    "cloudfront",
					Address: "https://d2vt18apel48hw.cloudfront.net",
					Front:   "a0.awsstatic.com",
				}},
			},
		}
		if diff := cmp.Diff(expect, entry); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("the public functions use the current time", func(t *testing.T) {
		kvs := &kvstore.Memory{}
		if err := Store(kvs, "https://bouncer.ooni.io", newResponse(200, sampleBody)); err != nil {
			t.Fatal(err)
		}
		entry, err := Load(kvs)
		if err != nil {
			t.Fatal(err)
		}
		if len(entry.Collectors) != 1 {
			t.Fatal("unexpected collectors")
		}
	})

	t.Run("we refuse to store a failed response", func(t *testing.T) {
		kvs := &kvstore.Memory{}
		err := Store(kvs, "https://bouncer.ooni.io", newResponse(500, sampleBody))
		if !errors.Is(err, ErrNotGood) {
			t.Fatal("unexpected error", err)
		}
		if _, err := Load(kvs); !errors.Is(err, kvstore.ErrNoSuchKey) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("we do not return expired entries", func(t *testing.T) {
		kvs := &kvstore.Memory{}
		now := time.Now()
		if err := store(kvs, "https://bouncer.ooni.io", newResponse(200, sampleBody), now); err != nil {
			t.Fatal(err)
		}
		entry, err := load(kvs, now.Add(DefaultExpiry+time.Second))
		if !errors.Is(err, ErrExpired) {
			t.Fatal("unexpected error", err)
		}
		if entry != nil {
			t.Fatal("expected nil entry")
		}
	})

	t.Run("we handle a corrupt entry", func(t *testing.T) {
		kvs := &kvstore.Memory{}
		if err := kvs.Set(bouncerState, []byte("{")); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(kvs); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("we propagate key-value store errors", func(t *testing.T) {
		expect := errors.New("mocked error")
		kvs := &mocks.KeyValueStore{
			MockSet: func(key string, value []byte) error {
				return expect
			},
		}
		if err := Store(kvs, "https://bouncer.ooni.io", newResponse(200, sampleBody)); !errors.Is(err, expect) {
			t.Fatal("unexpected error", err)
		}
	})
}
