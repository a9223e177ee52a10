package bouncer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ooni/probe-bouncer/internal/model"
)

func newGoodResponse(t *testing.T) *Response {
	d, err := parseResponseBody([]byte(sampleBody))
	if err != nil {
		t.Fatal(err)
	}
	resp := &Response{}
	resp.logf("Response body: %s", sampleBody)
	resp.setDiscovery(d)
	return resp
}

func TestResponseAccessors(t *testing.T) {
	t.Run("the zero value is a failed empty response", func(t *testing.T) {
		var resp Response
		if resp.Good() {
			t.Fatal("expected not good")
		}
		if resp.NumCollectors() != 0 || resp.NumHelperKeys() != 0 || resp.NumHelpers("tcp-echo") != 0 {
			t.Fatal("expected no entries")
		}
		if len(resp.Logs()) != 0 {
			t.Fatal("expected no logs")
		}
	})

	t.Run("collectors", func(t *testing.T) {
		resp := newGoodResponse(t)
		if resp.NumCollectors() != 3 {
			t.Fatal("unexpected number of collectors", resp.NumCollectors())
		}
		record, err := resp.CollectorAt(2)
		if err != nil {
			t.Fatal(err)
		}
		expect := model.BouncerRecord{
			Type:    "cloudfront",
			Address: "https://das0y2z2ribx3.cloudfront.net",
			Front:   "a0.awsstatic.com",
		}
		if diff := cmp.Diff(expect, record); diff != "" {
			t.Fatal(diff)
		}
		for _, idx := range []int{-1, 3} {
			if _, err := resp.CollectorAt(idx); !errors.Is(err, ErrNoSuchEntry) {
				t.Fatal("unexpected error", err)
			}
		}
	})

	t.Run("helpers", func(t *testing.T) {
		resp := newGoodResponse(t)
		if resp.NumHelperKeys() != 1 {
			t.Fatal("unexpected number of helper keys", resp.NumHelperKeys())
		}
		key, err := resp.HelperKeyAt(0)
		if err != nil {
			t.Fatal(err)
		}
		if key != model.BouncerHelperWebConnectivity {
			t.Fatal("unexpected key", key)
		}
		if _, err := resp.HelperKeyAt(1); !errors.Is(err, ErrNoSuchEntry) {
			t.Fatal("unexpected error", err)
		}
		if resp.NumHelpers(key) != 3 {
			t.Fatal("unexpected number of helpers", resp.NumHelpers(key))
		}
		record, err := resp.HelperAt(key, 0)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(model.BouncerRecord{Address: "httpo://y3zq5fwelrzkkv3s.onion"}, record); diff != "" {
			t.Fatal(diff)
		}
		if _, err := resp.HelperAt(key, 3); !errors.Is(err, ErrNoSuchEntry) {
			t.Fatal("unexpected error", err)
		}
		if _, err := resp.HelperAt("tcp-echo", 0); !errors.Is(err, ErrNoSuchEntry) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("the returned slices are copies", func(t *testing.T) {
		resp := newGoodResponse(t)
		resp.Collectors()[0].Address = "antani"
		resp.Helpers(model.BouncerHelperWebConnectivity)[0].Address = "antani"
		resp.HelperKeys()[0] = "antani"
		resp.Logs()[0] = 'X'
		if diff := cmp.Diff(newGoodResponse(t), resp, cmp.AllowUnexported(Response{})); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("MoveOutLogs transfers the logs", func(t *testing.T) {
		resp := newGoodResponse(t)
		expect := resp.Logs()
		logs := resp.MoveOutLogs()
		if diff := cmp.Diff(expect, logs); diff != "" {
			t.Fatal(diff)
		}
		if len(resp.MoveOutLogs()) != 0 || len(resp.Logs()) != 0 {
			t.Fatal("expected the logs to be gone")
		}
		if !resp.Good() {
			t.Fatal("moving out the logs should not change the outcome")
		}
	})
}
