package model

//
// Bouncer definitions.
//

// BouncerRecord is a reachable endpoint for a collector or a test helper
// as returned by the bouncer. The zero value of the optional fields means
// that the field was not set by the bouncer.
type BouncerRecord struct {
	// Type is the OPTIONAL type of the endpoint (e.g., "https", "cloudfront", "onion").
	Type string `json:"type"`

	// Address is the MANDATORY endpoint URL or onion address.
	Address string `json:"address"`

	// Front is the OPTIONAL domain to use for domain fronting.
	Front string `json:"front,omitempty"`
}

// BouncerRecordTypeOnion is the type we assign to the legacy single
// collector address, which is always an onion address.
const BouncerRecordTypeOnion = "onion"

// These are the names of all the test helpers that were ever used
// by nettests talking to the bouncer.
const (
	BouncerHelperHTTPReturnJSONHeaders = "http-return-json-headers"
	BouncerHelperTCPEcho               = "tcp-echo"
	BouncerHelperWebConnectivity       = "web-connectivity"
)

const (
	// BouncerDefaultBaseURL is the default bouncer base URL.
	BouncerDefaultBaseURL = "https://bouncer.ooni.io"

	// BouncerDefaultNettestName is the nettest name we send by default. The
	// bouncer does not care about it since the input-hashes era ended.
	BouncerDefaultNettestName = "web_connectivity"

	// BouncerDefaultNettestVersion is the default nettest version.
	BouncerDefaultNettestVersion = "0.0.1"

	// BouncerDefaultTimeout is the default timeout in seconds.
	BouncerDefaultTimeout int64 = 30
)

// DefaultBouncerHelpers returns a fresh copy of the helpers we ask for
// by default, i.e., all the helpers ever used.
func DefaultBouncerHelpers() []string {
	return []string{
		BouncerHelperWebConnectivity,
		BouncerHelperHTTPReturnJSONHeaders,
		BouncerHelperTCPEcho,
	}
}
