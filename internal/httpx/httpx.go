// Package httpx implements [model.HTTPExchanger] using the HTTP
// stack from github.com/ooni/oohttp.
//
// Each exchange uses a fresh transport, so there is no connection reuse
// across exchanges, and produces a transcript resembling the one of a
// verbose command line HTTP client. Errors are classified into the
// [model.HTTPExchangeError] codes.
package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/ooni/probe-bouncer/internal/version"
)

// DefaultMaxBodySize is the default value for the maximum
// response body size we're willing to read.
const DefaultMaxBodySize = 1 << 22

// DefaultTimeout is the timeout we use when the request does not
// specify a positive timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the default User-Agent header.
const DefaultUserAgent = "ooniprobe-bouncer/" + version.Version

// Client is an [model.HTTPExchanger]. The zero value is invalid; construct
// using [NewClient]. This struct is safe for concurrent use.
type Client struct {
	// Logger is the MANDATORY logger receiving a copy of each transcript line.
	Logger model.Logger

	// MaxBodySize is the MANDATORY maximum body size.
	MaxBodySize int64

	// UserAgent is the MANDATORY User-Agent header.
	UserAgent string
}

var _ model.HTTPExchanger = &Client{}

// NewClient creates a new [*Client] using the given logger.
func NewClient(logger model.Logger) *Client {
	return &Client{
		Logger:      model.ValidLoggerOrDefault(logger),
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
	}
}

// Exchange implements model.HTTPExchanger.
func (c *Client) Exchange(ctx context.Context, req *model.HTTPExchangeRequest) *model.HTTPExchangeResponse {
	handler := newTranscriptHandler(c.Logger)
	logger := &log.Logger{Handler: handler, Level: log.DebugLevel}
	code, status, body := c.exchange(ctx, logger, req)
	return &model.HTTPExchangeResponse{
		Error:      code,
		StatusCode: status,
		Body:       body,
		Logs:       handler.Bytes(),
	}
}

func (c *Client) exchange(
	ctx context.Context, logger model.Logger, req *model.HTTPExchangeRequest) (model.HTTPExchangeError, int64, []byte) {
	logger.Infof("* transaction %s", uuid.NewString())

	timeout := time.Duration(req.Timeout) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := newCertPool(req.CABundlePath)
	if err != nil {
		logger.Warnf("* %s", err.Error())
		return model.HTTPExchangeErrorSSLCACertBadFile, 0, nil
	}

	URL, err := url.Parse(req.URL)
	if err != nil {
		logger.Warnf("* %s", err.Error())
		return model.HTTPExchangeErrorURLMalformat, 0, nil
	}
	if URL.Scheme != "http" && URL.Scheme != "https" {
		logger.Warnf("* unsupported protocol: %q", URL.Scheme)
		return model.HTTPExchangeErrorUnsupportedProtocol, 0, nil
	}
	if URL.Host == "" {
		logger.Warnf("* missing host in URL: %s", req.URL)
		return model.HTTPExchangeErrorURLMalformat, 0, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, URL.String(), bytes.NewReader(req.Body))
	if err != nil {
		logger.Warnf("* %s", err.Error())
		return model.HTTPExchangeErrorURLMalformat, 0, nil
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("User-Agent", c.UserAgent)

	txp := newTransport(logger, pool)
	defer txp.CloseIdleConnections()
	clnt := &http.Client{
		Transport: txp,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // we don't follow redirects
		},
	}

	logger.Infof("> %s %s", httpReq.Method, URL.String())
	logHeaders(logger, ">", httpReq.Header)
	logger.Infof("> [%d bytes of body]", len(req.Body))

	httpResp, err := clnt.Do(httpReq)
	if err != nil {
		code := classifyError(err)
		logger.Warnf("* %s (error %d)", err.Error(), code)
		return code, 0, nil
	}
	defer httpResp.Body.Close()

	logger.Infof("< %s %s", httpResp.Proto, httpResp.Status)
	logHeaders(logger, "<", httpResp.Header)

	// read one extra byte to detect bodies exceeding the limit
	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.MaxBodySize+1))
	if err != nil {
		code := classifyError(err)
		logger.Warnf("* %s (error %d)", err.Error(), code)
		return code, 0, nil
	}
	if int64(len(body)) > c.MaxBodySize {
		code := model.HTTPExchangeErrorFilesizeExceeded
		logger.Warnf("* response body exceeds %d bytes (error %d)", c.MaxBodySize, code)
		return code, 0, nil
	}
	logger.Infof("< [%d bytes of body]", len(body))
	return model.HTTPExchangeErrorNone, int64(httpResp.StatusCode), body
}

// logHeaders logs the headers sorted by name.
func logHeaders(logger model.Logger, prefix string, header http.Header) {
	var keys []string
	for key := range header {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, value := range header[key] {
			logger.Infof("%s %s: %s", prefix, key, value)
		}
	}
}
