package testingx

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/apex/log"
	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/ooni/probe-bouncer/internal/must"
)

// OONIBouncer implements the OONI bouncer for testing.
//
// The zero value is ready to use and returns an empty discovery.
//
// Like the real bouncer, this implementation only returns the test helpers
// the client asked for. This struct methods panics for several errors. Only
// use for testing purposes!
type OONIBouncer struct {
	// Collector is the OPTIONAL legacy onion collector address.
	Collector string

	// CollectorAlternate contains the OPTIONAL alternate collectors.
	CollectorAlternate []model.BouncerRecord

	// TestHelpers maps a test helper name to its legacy address.
	TestHelpers map[string]string

	// TestHelpersAlternate maps a test helper name to its alternate records.
	TestHelpersAlternate map[string][]model.BouncerRecord

	// mu provides mutual exclusion.
	mu sync.Mutex

	// requests counts the valid requests we have served.
	requests int
}

// ooniBouncerRequestNettest is a nettest inside the request.
type ooniBouncerRequestNettest struct {
	Name        string   `json:"name"`
	TestHelpers []string `json:"test-helpers"`
	Version     string   `json:"version"`
}

// ooniBouncerRequest is the request body.
type ooniBouncerRequest struct {
	NetTests []ooniBouncerRequestNettest `json:"net-tests"`
}

// ooniBouncerResponseNettest is a nettest inside the response.
type ooniBouncerResponseNettest struct {
	Collector            string                           `json:"collector,omitempty"`
	CollectorAlternate   []model.BouncerRecord            `json:"collector-alternate,omitempty"`
	InputHashes          []string                         `json:"input-hashes"`
	Name                 string                           `json:"name"`
	TestHelpers          map[string]string                `json:"test-helpers,omitempty"`
	TestHelpersAlternate map[string][]model.BouncerRecord `json:"test-helpers-alternate,omitempty"`
	Version              string                           `json:"version"`
}

// ooniBouncerResponse is the response body.
type ooniBouncerResponse struct {
	NetTests []ooniBouncerResponseNettest `json:"net-tests"`
}

// Requests returns the number of valid requests served so far.
//
// This method is safe to call concurrently with other methods.
func (ob *OONIBouncer) Requests() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.requests
}

// ServeHTTP implements [http.Handler].
//
// This method is safe to call concurrently with other methods.
func (ob *OONIBouncer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// make sure that the method is POST
	if r.Method != "POST" {
		log.Warnf("OONIBouncer: invalid method")
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	// make sure the URL path is the expected one
	if r.URL.Path != "/bouncer/net-tests" {
		log.Warnf("OONIBouncer: invalid URL path")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// make sure that the content-type is application/json
	if r.Header.Get("Content-Type") != "application/json" {
		log.Warnf("OONIBouncer: missing content-type header")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// read the raw request body
	rawreqbody, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warnf("OONIBouncer: cannot read request body: %s", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// parse the request body
	var request ooniBouncerRequest
	if err := json.Unmarshal(rawreqbody, &request); err != nil {
		log.Warnf("OONIBouncer: cannot parse request body: %s", err.Error())
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(request.NetTests) != 1 {
		log.Warnf("OONIBouncer: expected exactly one nettest")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ob.mu.Lock()
	ob.requests++
	ob.mu.Unlock()

	// fill the response with what the client asked for
	nettest := request.NetTests[0]
	response := &ooniBouncerResponse{
		NetTests: []ooniBouncerResponseNettest{{
			Collector:          ob.Collector,
			CollectorAlternate: ob.CollectorAlternate,
			InputHashes:        nil,
			Name:               nettest.Name,
			Version:            nettest.Version,
		}},
	}
	for _, name := range nettest.TestHelpers {
		if addr, found := ob.TestHelpers[name]; found {
			if response.NetTests[0].TestHelpers == nil {
				response.NetTests[0].TestHelpers = make(map[string]string)
			}
			response.NetTests[0].TestHelpers[name] = addr
		}
		if records, found := ob.TestHelpersAlternate[name]; found {
			if response.NetTests[0].TestHelpersAlternate == nil {
				response.NetTests[0].TestHelpersAlternate = make(map[string][]model.BouncerRecord)
			}
			response.NetTests[0].TestHelpersAlternate[name] = records
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(must.MarshalJSON(response))
}
