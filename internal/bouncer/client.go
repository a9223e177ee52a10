package bouncer

//
// client.go - perform a bouncer request
//

import (
	"context"

	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/ooni/probe-bouncer/internal/runtimex"
)

// Client is a bouncer client. The zero value is invalid; construct
// using [NewClient]. A client holds no state across calls, therefore
// it is safe to call Perform concurrently as long as the underlying
// [model.HTTPExchanger] is also safe for concurrent use.
type Client struct {
	// Exchanger is the MANDATORY [model.HTTPExchanger] to use.
	Exchanger model.HTTPExchanger

	// Logger is the MANDATORY [model.Logger] to use.
	Logger model.Logger
}

// NewClient creates a new [*Client]. A nil logger is
// replaced with the [model.DiscardLogger].
func NewClient(exchanger model.HTTPExchanger, logger model.Logger) *Client {
	runtimex.PanicIfNil(exchanger, "bouncer: nil exchanger")
	return &Client{
		Exchanger: exchanger,
		Logger:    model.ValidLoggerOrDefault(logger),
	}
}

// Perform sends the given request to the bouncer and returns the response.
//
// This function always returns a valid [*Response]. We issue exactly one
// HTTP request and never retry. On failure, [Response.Good] is false and the
// logs contain the reason. Retrying is up to the caller.
func (c *Client) Perform(ctx context.Context, req *Request) *Response {
	runtimex.Assert(req != nil, "bouncer: nil request")
	resp := &Response{}

	body, err := newRequestBody(req)
	if err != nil {
		resp.logf("bouncer: failed to serialize request: %s", err.Error())
		c.Logger.Warnf("bouncer: failed to serialize request: %s", err.Error())
		return resp
	}
	resp.logf("Request body: %s", body)

	URL := req.URL()
	c.Logger.Debugf("bouncer: POST %s...", URL)
	exresp := c.Exchanger.Exchange(ctx, &model.HTTPExchangeRequest{
		Method:       "POST",
		URL:          URL,
		ContentType:  "application/json",
		Body:         body,
		Timeout:      req.Timeout,
		CABundlePath: req.CABundlePath,
	})
	runtimex.Assert(exresp != nil, "bouncer: exchanger returned a nil response")

	// the transcript is useful to diagnose bouncer issues, so we
	// always include it, whatever happened afterwards
	resp.appendLogs(exresp.Logs)

	if exresp.Error != model.HTTPExchangeErrorNone {
		reason := ReasonForFailure(exresp)
		resp.logf("%s", reason)
		c.Logger.Warnf("bouncer: POST %s... %s (error %d)", URL, reason, exresp.Error)
		return resp
	}

	if exresp.StatusCode != 200 {
		reason := ReasonForFailure(exresp)
		resp.logf("%s", reason)
		c.Logger.Warnf("bouncer: POST %s... %s (status %d)", URL, reason, exresp.StatusCode)
		return resp
	}

	resp.logf("Response body: %s", exresp.Body)
	d, err := parseResponseBody(exresp.Body)
	if err != nil {
		resp.logf("%s", err.Error())
		c.Logger.Warnf("bouncer: cannot parse response body: %s", err.Error())
		return resp
	}

	resp.setDiscovery(d)
	c.Logger.Debugf("bouncer: POST %s... ok (%d collectors, %d helpers)",
		URL, len(d.collectors), len(d.helperKeys))
	return resp
}
