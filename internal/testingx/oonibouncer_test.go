package testingx

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ooni/probe-bouncer/internal/model"
)

func TestOONIBouncer(t *testing.T) {
	newBouncer := func() *OONIBouncer {
		return &OONIBouncer{
			Collector: "httpo://42q7ug46dspcsvkw.onion",
			CollectorAlternate: []model.BouncerRecord{{
				Type:    "https",
				Address: "https://c.collector.ooni.io:443",
			}},
			TestHelpers: map[string]string{
				"web-connectivity": "httpo://y3zq5fwelrzkkv3s.onion",
				"tcp-echo":         "37.218.241.94",
			},
			TestHelpersAlternate: map[string][]model.BouncerRecord{
				"web-connectivity": {{
					Type:    "cloudfront",
					Address: "https://d2vt18apel48hw.cloudfront.net",
					Front:   "a0.awsstatic.com",
				}},
			},
		}
	}

	post := func(t *testing.T, URL, contentType, body string) (int, string) {
		resp, err := http.Post(URL, contentType, bytes.NewReader([]byte(body)))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		return resp.StatusCode, string(data)
	}

	t.Run("we only return the requested helpers", func(t *testing.T) {
		bouncer := newBouncer()
		srv := httptest.NewServer(bouncer)
		defer srv.Close()
		status, body := post(t, srv.URL+"/bouncer/net-tests", "application/json",
			`{"net-tests":[{"input-hashes":null,"name":"web_connectivity","test-helpers":["web-connectivity"],"version":"0.0.1"}]}`)
		if status != 200 {
			t.Fatal("unexpected status", status)
		}
		expect := `{"net-tests":[{"collector":"httpo://42q7ug46dspcsvkw.onion",` +
			`"collector-alternate":[{"type":"https","address":"https://c.collector.ooni.io:443"}],` +
			`"input-hashes":null,"name":"web_connectivity",` +
			`"test-helpers":{"web-connectivity":"httpo://y3zq5fwelrzkkv3s.onion"},` +
			`"test-helpers-alternate":{"web-connectivity":[{"type":"cloudfront",` +
			`"address":"https://d2vt18apel48hw.cloudfront.net","front":"a0.awsstatic.com"}]},` +
			`"version":"0.0.1"}]}`
		if diff := cmp.Diff(expect, body); diff != "" {
			t.Fatal(diff)
		}
		if bouncer.Requests() != 1 {
			t.Fatal("expected one request")
		}
	})

	t.Run("we reject invalid requests", func(t *testing.T) {
		type testcase struct {
			name        string
			method      string
			path        string
			contentType string
			body        string
			status      int
		}
		cases := []testcase{{
			name:        "with invalid method",
			method:      "GET",
			path:        "/bouncer/net-tests",
			contentType: "application/json",
			status:      http.StatusNotImplemented,
		}, {
			name:        "with invalid path",
			method:      "POST",
			path:        "/bouncer",
			contentType: "application/json",
			body:        `{}`,
			status:      http.StatusNotFound,
		}, {
			name:        "with invalid content type",
			method:      "POST",
			path:        "/bouncer/net-tests",
			contentType: "text/plain",
			body:        `{}`,
			status:      http.StatusBadRequest,
		}, {
			name:        "with invalid JSON",
			method:      "POST",
			path:        "/bouncer/net-tests",
			contentType: "application/json",
			body:        `{`,
			status:      http.StatusBadRequest,
		}, {
			name:        "with no nettests",
			method:      "POST",
			path:        "/bouncer/net-tests",
			contentType: "application/json",
			body:        `{"net-tests":[]}`,
			status:      http.StatusBadRequest,
		}}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				bouncer := newBouncer()
				srv := httptest.NewServer(bouncer)
				defer srv.Close()
				req, err := http.NewRequest(tc.method, srv.URL+tc.path, bytes.NewReader([]byte(tc.body)))
				if err != nil {
					t.Fatal(err)
				}
				req.Header.Set("Content-Type", tc.contentType)
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					t.Fatal(err)
				}
				resp.Body.Close()
				if resp.StatusCode != tc.status {
					t.Fatal("expected", tc.status, "got", resp.StatusCode)
				}
				if bouncer.Requests() != 0 {
					t.Fatal("should not have counted the request")
				}
			})
		}
	})
}
