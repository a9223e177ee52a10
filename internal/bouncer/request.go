package bouncer

//
// request.go - request builder
//

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ooni/probe-bouncer/internal/model"
)

// Request is a bouncer request. Construct using [NewRequest], which
// fills the fields with their defaults, and then edit the fields you
// need to change. [*Client.Perform] does not modify the request.
type Request struct {
	// BaseURL is the MANDATORY bouncer base URL.
	BaseURL string

	// CABundlePath is the OPTIONAL path of the CA bundle to use.
	CABundlePath string

	// Name is the MANDATORY nettest name.
	Name string

	// Version is the MANDATORY nettest version.
	Version string

	// Helpers contains the OPTIONAL test helpers we would like to use. The
	// order is preserved and duplicates are allowed.
	Helpers []string

	// Timeout is the MANDATORY timeout in seconds.
	Timeout int64
}

// NewRequest returns a new [*Request] using the defaults.
func NewRequest() *Request {
	return &Request{
		BaseURL:      model.BouncerDefaultBaseURL,
		CABundlePath: "",
		Name:         model.BouncerDefaultNettestName,
		Version:      model.BouncerDefaultNettestVersion,
		Helpers:      model.DefaultBouncerHelpers(),
		Timeout:      model.BouncerDefaultTimeout,
	}
}

// URL returns the URL to which we should POST the request.
func (r *Request) URL() string {
	return strings.TrimSuffix(r.BaseURL, "/") + "/bouncer/net-tests"
}

// ErrInvalidText indicates that a request string is not valid UTF-8 and
// hence cannot be represented as a JSON string.
var ErrInvalidText = errors.New("bouncer: invalid UTF-8 text")

// legacyNull is a field that always serializes to JSON null. The bouncer
// still expects to see input-hashes, a relic of the input-hashes era.
type legacyNull struct{}

// MarshalJSON implements json.Marshaler.
func (legacyNull) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// requestNettest is a nettest inside the request body.
type requestNettest struct {
	InputHashes legacyNull `json:"input-hashes"`
	Name        string     `json:"name"`
	TestHelpers []string   `json:"test-helpers"`
	Version     string     `json:"version"`
}

// requestBody is the request body.
type requestBody struct {
	NetTests []requestNettest `json:"net-tests"`
}

// newRequestBody serializes the request body. The encoding/json package
// would silently replace invalid UTF-8 with U+FFFD, so we refuse to
// serialize such strings rather than sending something else.
func newRequestBody(req *Request) ([]byte, error) {
	if err := validText("name", req.Name); err != nil {
		return nil, err
	}
	if err := validText("version", req.Version); err != nil {
		return nil, err
	}
	helpers := make([]string, 0, len(req.Helpers))
	for idx, helper := range req.Helpers {
		if err := validText(fmt.Sprintf("test-helpers[%d]", idx), helper); err != nil {
			return nil, err
		}
		helpers = append(helpers, helper)
	}
	body := &requestBody{
		NetTests: []requestNettest{{
			Name:        req.Name,
			TestHelpers: helpers,
			Version:     req.Version,
		}},
	}
	return json.Marshal(body)
}

func validText(field, value string) error {
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w in %s", ErrInvalidText, field)
	}
	return nil
}
