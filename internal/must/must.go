// Package must contains functions that panic on error.
package must

import (
	"encoding/json"
	"net/url"
	"os"

	"github.com/ooni/probe-bouncer/internal/runtimex"
)

// ParseURL is like [url.Parse] but calls
// [runtimex.PanicOnError] on failure.
func ParseURL(URL string) *url.URL {
	parsed, err := url.Parse(URL)
	runtimex.PanicOnError(err, "url.Parse failed")
	return parsed
}

// MarshalJSON is like [json.Marshal] but calls
// [runtimex.PanicOnError] on failure.
func MarshalJSON(v any) []byte {
	data, err := json.Marshal(v)
	runtimex.PanicOnError(err, "json.Marshal failed")
	return data
}

// MarshalAndIndentJSON is like [json.MarshalIndent] but calls
// [runtimex.PanicOnError] on failure.
func MarshalAndIndentJSON(v any, prefix string, indent string) []byte {
	data, err := json.MarshalIndent(v, prefix, indent)
	runtimex.PanicOnError(err, "json.MarshalIndent failed")
	return data
}

// UnmarshalJSON is like [json.Unmarshal] but calls
// [runtimex.PanicOnError] on failure.
func UnmarshalJSON(data []byte, v any) {
	err := json.Unmarshal(data, v)
	runtimex.PanicOnError(err, "json.Unmarshal failed")
}

// WriteFile is like [os.WriteFile] but calls
// [runtimex.PanicOnError] on failure.
func WriteFile(filename string, content []byte, mode os.FileMode) {
	err := os.WriteFile(filename, content, mode)
	runtimex.PanicOnError(err, "os.WriteFile failed")
}

// ReadFile is like [os.ReadFile] but calls
// [runtimex.PanicOnError] on failure.
func ReadFile(filename string) []byte {
	data, err := os.ReadFile(filename)
	runtimex.PanicOnError(err, "os.ReadFile failed")
	return data
}
