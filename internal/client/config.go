package client

import (
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// RequestIDHeader correlates every request of one run on the server side.
	RequestIDHeader = "X-Request-Id"
)

type Option func(c *Client)

// WithHTTPClient replaces the default HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestID sets the id sent in RequestIDHeader. An empty id disables the header.
func WithRequestID(id string) Option {
	return func(c *Client) {
		c.requestID = id
	}
}

// NewHTTPClient returns the HTTP client used against LogZilla. There is no
// overall request timeout; only dialing and idle connections are bounded.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     false,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

func trimBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
