package testingx

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ooni/probe-bouncer/internal/must"
	"github.com/ooni/probe-bouncer/internal/runtimex"
)

// HTTPHandlerReset returns a handler that resets the connection.
func HTTPHandlerReset() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hijacker := w.(http.Hijacker)
		conn, _, err := hijacker.Hijack()
		runtimex.PanicOnError(err, "hijacker.Hijack failed")
		tcpMaybeResetNetConn(conn)
	})
}

// HTTPHandlerBlockpage451 returns a handler that returns 451 along with a blockpage.
func HTTPHandlerBlockpage451() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnavailableForLegalReasons)
		w.Write([]byte("<html><body>Blocked</body></html>\n"))
	})
}

// HTTPHandlerHang returns a handler that hangs until the client gives up.
func HTTPHandlerHang() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
}

// HTTPHandlerRedirect returns a handler that redirects to the given location.
func HTTPHandlerRedirect(location string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", location)
		w.WriteHeader(http.StatusFound)
	})
}

// MustWriteServerCABundle writes the certificate of a TLS server created
// using [httptest.NewTLSServer] into a PEM file inside a temporary directory
// managed by t and returns the file path.
func MustWriteServerCABundle(t *testing.T, srv *httptest.Server) string {
	runtimex.Assert(srv.Certificate() != nil, "testingx: not a TLS server")
	data := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: srv.Certificate().Raw,
	})
	path := filepath.Join(t.TempDir(), "ca-bundle.pem")
	must.WriteFile(path, data, 0600)
	return path
}
