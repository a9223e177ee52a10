package httpx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"time"

	oohttp "github.com/ooni/oohttp"
	"github.com/ooni/probe-bouncer/internal/model"
)

// newTransport creates a new transport that is never reused across exchanges.
func newTransport(logger model.Logger, pool *x509.CertPool) *oohttp.StdlibTransport {
	dialer := &dialerLogger{
		Dialer: &net.Dialer{Timeout: 15 * time.Second},
		Logger: logger,
	}
	handshaker := &tlsHandshakerLogger{
		Dialer: dialer,
		Logger: logger,
		Pool:   pool,
	}
	txp := oohttp.DefaultTransport.(*oohttp.Transport).Clone()
	txp.Proxy = nil
	txp.DialContext = dialer.DialContext
	txp.DialTLSContext = handshaker.DialTLSContext
	// Required to enable using HTTP/2 (which will in turn only be
	// used if the server negotiates it via ALPN)
	txp.ForceAttemptHTTP2 = true
	txp.MaxConnsPerHost = 1
	return &oohttp.StdlibTransport{Transport: txp}
}

// dialerLogger is a dialer that logs connect events.
type dialerLogger struct {
	Dialer *net.Dialer
	Logger model.Logger
}

// DialContext dials a new connection.
func (d *dialerLogger) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.Logger.Infof("* connect %s/%s...", address, network)
	start := time.Now()
	conn, err := d.Dialer.DialContext(ctx, network, address)
	elapsed := time.Since(start)
	if err != nil {
		d.Logger.Infof("* connect %s/%s... %s in %s", address, network, err.Error(), elapsed)
		return nil, err
	}
	d.Logger.Infof("* connect %s/%s... ok in %s", address, network, elapsed)
	return conn, nil
}

// tlsHandshakerLogger dials and performs TLS handshakes logging the results.
type tlsHandshakerLogger struct {
	Dialer *dialerLogger
	Logger model.Logger
	Pool   *x509.CertPool
}

// DialTLSContext dials a new TLS connection.
func (h *tlsHandshakerLogger) DialTLSContext(ctx context.Context, network, address string) (net.Conn, error) {
	sni, _, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	conn, err := h.Dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	config := &tls.Config{
		RootCAs:    h.Pool,
		ServerName: sni,
		NextProtos: []string{"h2", "http/1.1"},
	}
	h.Logger.Infof("* tls {sni=%s next=%v}...", sni, config.NextProtos)
	start := time.Now()
	tlsConn := tls.Client(conn, config)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		h.Logger.Infof("* tls {sni=%s next=%v}... %s in %s", sni, config.NextProtos, err.Error(), time.Since(start))
		conn.Close()
		return nil, err
	}
	state := tlsConn.ConnectionState()
	h.Logger.Infof("* tls {sni=%s next=%v}... ok in %s {next=%s cipher=%s v=%s}",
		sni, config.NextProtos, time.Since(start), state.NegotiatedProtocol,
		tls.CipherSuiteName(state.CipherSuite), tls.VersionName(state.Version))
	return tlsConn, nil
}
