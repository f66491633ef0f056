package httpx

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Doer is the subset of *http.Client used by Client.
//
//go:generate mockgen -destination=httpxmock/doer_mock.go -package=httpxmock onrampcompare/internal/httpx Doer
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a small wrapper around http.Client with sane defaults.
// One Client is shared by every provider so outbound calls reuse a single pool.
type Client struct {
	HTTP      Doer
	UserAgent string
	Headers   map[string]string
}

// New builds a Client whose transport is tuned for many short JSON calls.
// timeout is an upper bound per request; callers normally set a tighter
// deadline through the request context.
func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: "onramp-compare/1.0",
	}
}

// Do sends req bound to ctx. Default User-Agent and Headers are applied only
// where the request does not already set them.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	return c.HTTP.Do(req)
}
