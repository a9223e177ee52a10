package httpx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/ooni/probe-bouncer/internal/model"
)

// classifyError maps a Go error to the corresponding [model.HTTPExchangeError].
func classifyError(err error) model.HTTPExchangeError {
	switch {
	case err == nil:
		return model.HTTPExchangeErrorNone
	case errors.Is(err, context.DeadlineExceeded):
		return model.HTTPExchangeErrorOperationTimedout
	case errors.Is(err, context.Canceled):
		return model.HTTPExchangeErrorAborted
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return model.HTTPExchangeErrorOperationTimedout
		}
		return model.HTTPExchangeErrorCouldntResolveHost
	}

	if classifyCertificateError(err) {
		return model.HTTPExchangeErrorPeerFailedVerification
	}

	var (
		alertErr  tls.AlertError
		recordErr tls.RecordHeaderError
	)
	if errors.As(err, &alertErr) || errors.As(err, &recordErr) {
		return model.HTTPExchangeErrorSSLConnect
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		return model.HTTPExchangeErrorCouldntConnect
	case errors.Is(err, syscall.ECONNRESET):
		return model.HTTPExchangeErrorRecvError
	case errors.Is(err, syscall.EPIPE):
		return model.HTTPExchangeErrorSendError
	case errors.Is(err, syscall.EAGAIN):
		return model.HTTPExchangeErrorAgain
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.HTTPExchangeErrorOperationTimedout
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return model.HTTPExchangeErrorGotNothing
	}
	return model.HTTPExchangeErrorUnknown
}

func classifyCertificateError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
