package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"aiapi/internal/models"
)

const (
	DefaultTimeout         = 60 * time.Second
	defaultDialTimeout     = 10 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultIdleConnTimeout = 90 * time.Second

	maxResponseBytes = 4 << 20 // 4 MiB
)

// ErrUpstream indicates the provider answered with an HTTP error status.
var ErrUpstream = errors.New("upstream error")

// Response is the raw result of executing a RequestSpec. Decoding it is up to the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client executes RequestSpecs over HTTP.
type Client struct {
	http *http.Client
}

// New creates a client with a tuned transport and the given overall timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: newHTTPClient(timeout)}
}

// NewWithHTTPClient wraps an existing client, mainly for tests.
func NewWithHTTPClient(client *http.Client) (*Client, error) {
	if client == nil {
		return nil, errors.New("http client must not be nil")
	}
	return &Client{http: client}, nil
}

// NewRequest converts spec into an *http.Request bound to ctx.
func NewRequest(ctx context.Context, spec models.RequestSpec) (*http.Request, error) {
	if spec.URL == nil {
		return nil, errors.New("request spec has no url")
	}

	var body io.Reader
	if len(spec.Body) > 0 {
		body = bytes.NewReader(spec.Body)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("construct request: %w", err)
	}

	for _, h := range spec.Headers {
		req.Header.Add(h.Key, h.Value)
	}
	return req, nil
}

// Do sends spec and returns the raw response. Statuses >= 400 are reported as
// ErrUpstream together with the (bounded) response body.
func (c *Client) Do(ctx context.Context, spec models.RequestSpec) (*Response, error) {
	req, err := NewRequest(ctx, spec)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", spec.Method, spec.URL.Redacted(), err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	slog.Debug("upstream request",
		"method", spec.Method,
		"url", spec.URL.Redacted(),
		"status", httpResp.StatusCode,
		"latency_ms", time.Since(started).Milliseconds(),
	)

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}
	if httpResp.StatusCode >= 400 {
		return resp, fmt.Errorf("%w: status %d: %s", ErrUpstream, httpResp.StatusCode, strings.TrimSpace(string(data)))
	}
	return resp, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
