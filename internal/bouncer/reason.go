package bouncer

import "github.com/ooni/probe-bouncer/internal/model"

const (
	// reasonHTTPError is the reason when the status code is not 200.
	reasonHTTPError = "bouncer: HTTP response code said error"

	// reasonUnknown is the reason for transport errors we don't know about.
	reasonUnknown = "bouncer: unknown transport error"
)

// transportReasons maps transport error codes to human readable reasons.
var transportReasons = map[model.HTTPExchangeError]string{
	model.HTTPExchangeErrorUnsupportedProtocol:    "bouncer: Unsupported protocol",
	model.HTTPExchangeErrorURLMalformat:           "bouncer: URL using bad/illegal format or missing URL",
	model.HTTPExchangeErrorCouldntResolveHost:     "bouncer: Couldn't resolve host name",
	model.HTTPExchangeErrorCouldntConnect:         "bouncer: Couldn't connect to server",
	model.HTTPExchangeErrorOperationTimedout:      "bouncer: Timeout was reached",
	model.HTTPExchangeErrorSSLConnect:             "bouncer: SSL connect error",
	model.HTTPExchangeErrorAborted:                "bouncer: Operation was aborted by an application callback",
	model.HTTPExchangeErrorGotNothing:             "bouncer: Server returned nothing (no headers, no data)",
	model.HTTPExchangeErrorSendError:              "bouncer: Failed sending data to the peer",
	model.HTTPExchangeErrorRecvError:              "bouncer: Failure when receiving data from the peer",
	model.HTTPExchangeErrorPeerFailedVerification: "bouncer: SSL peer certificate or SSH remote key was not OK",
	model.HTTPExchangeErrorFilesizeExceeded:       "bouncer: Maximum file size exceeded",
	model.HTTPExchangeErrorSSLCACertBadFile:       "bouncer: Problem with the SSL CA cert (path? access rights?)",
	model.HTTPExchangeErrorAgain:                  "bouncer: Socket not ready for send/recv",
}

// ReasonForFailure returns a human readable reason explaining why the
// given exchange failed. A transport error takes precedence over the
// status code. When neither indicates a failure, we return a generic
// reason, since the caller should not have asked.
func ReasonForFailure(resp *model.HTTPExchangeResponse) string {
	if resp.Error != model.HTTPExchangeErrorNone {
		if reason, found := transportReasons[resp.Error]; found {
			return reason
		}
		return reasonUnknown
	}
	if resp.StatusCode != 200 {
		return reasonHTTPError
	}
	return reasonUnknown
}
