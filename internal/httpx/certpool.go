package httpx

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertificates indicates that a CA bundle contains no PEM certificates.
var ErrNoCertificates = errors.New("httpx: no certificates in CA bundle")

// newCertPool returns the cert pool to use for verifying servers. An empty
// path means using the system pool, which we represent with a nil pool.
func newCertPool(path string) (*x509.CertPool, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("httpx: cannot read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("%w: %s", ErrNoCertificates, path)
	}
	return pool, nil
}
