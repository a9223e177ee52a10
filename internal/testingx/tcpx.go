// Package testingx contains code useful for testing.
package testingx

import "net"

// tcpMaybeResetNetConn is a portable mechanism to reset a net.Conn that takes into account
// TLS wrapping with any library.
func tcpMaybeResetNetConn(conn net.Conn) {
	// first, let's try to get the underlying conn, when we're using TLS
	type connUnwrapper interface {
		NetConn() net.Conn
	}
	if unwrapper, good := conn.(connUnwrapper); good {
		conn = unwrapper.NetConn()
	}

	// then, let's try to get the controller for disabling linger
	type connLingerSetter interface {
		SetLinger(sec int) error
	}
	if setter, good := conn.(connLingerSetter); good {
		setter.SetLinger(0)
	}

	// close the conn to trigger the reset (we MUST call Close here where
	// we're using the underlying conn and it doesn't suffice to call it
	// inside the http.Handler, where wrapping would not cause a RST)
	conn.Close()
}
