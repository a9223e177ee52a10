package model

import "context"

//
// HTTP exchange capability.
//

// HTTPExchangeRequest describes a single HTTP exchange.
type HTTPExchangeRequest struct {
	// Method is the MANDATORY HTTP method.
	Method string

	// URL is the MANDATORY URL.
	URL string

	// ContentType is the OPTIONAL request content type.
	ContentType string

	// Body is the OPTIONAL request body.
	Body []byte

	// Timeout is the MANDATORY timeout in seconds. The exchanger
	// enforces it for the whole exchange, body reading included.
	Timeout int64

	// CABundlePath is the OPTIONAL path of a PEM CA bundle. When
	// empty, the exchanger uses the system roots.
	CABundlePath string
}

// HTTPExchangeResponse is the result of an [HTTPExchanger] exchange.
type HTTPExchangeResponse struct {
	// Error is the transport error code. Zero means no error.
	Error HTTPExchangeError

	// StatusCode is the HTTP status code or zero on transport error.
	StatusCode int64

	// Body is the response body.
	Body []byte

	// Logs is the diagnostic transcript of the exchange. It
	// may contain bytes that are not valid UTF-8.
	Logs []byte
}

// HTTPExchanger performs a single HTTP exchange. Implementations MUST
// NOT return a nil response and SHOULD be safe for concurrent use.
type HTTPExchanger interface {
	Exchange(ctx context.Context, req *HTTPExchangeRequest) *HTTPExchangeResponse
}

// HTTPExchangeError is a transport error code. The numbering follows
// libcurl's, so operators can read transcripts with familiar codes.
type HTTPExchangeError int64

const (
	HTTPExchangeErrorNone                   = HTTPExchangeError(0)
	HTTPExchangeErrorUnsupportedProtocol    = HTTPExchangeError(1)
	HTTPExchangeErrorURLMalformat           = HTTPExchangeError(3)
	HTTPExchangeErrorCouldntResolveHost     = HTTPExchangeError(6)
	HTTPExchangeErrorCouldntConnect         = HTTPExchangeError(7)
	HTTPExchangeErrorOperationTimedout      = HTTPExchangeError(28)
	HTTPExchangeErrorSSLConnect             = HTTPExchangeError(35)
	HTTPExchangeErrorAborted                = HTTPExchangeError(42)
	HTTPExchangeErrorGotNothing             = HTTPExchangeError(52)
	HTTPExchangeErrorSendError              = HTTPExchangeError(55)
	HTTPExchangeErrorRecvError              = HTTPExchangeError(56)
	HTTPExchangeErrorPeerFailedVerification = HTTPExchangeError(60)
	HTTPExchangeErrorFilesizeExceeded       = HTTPExchangeError(63)
	HTTPExchangeErrorSSLCACertBadFile       = HTTPExchangeError(77)
	HTTPExchangeErrorAgain                  = HTTPExchangeError(81)

	// HTTPExchangeErrorUnknown is used for errors we cannot classify.
	HTTPExchangeErrorUnknown = HTTPExchangeError(1 << 16)
)
