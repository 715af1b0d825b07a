// Package httputil holds the HTTP plumbing shared by the Stellarium client and
// the debug routes: a Do-only client interface, a scripted fake for tests, and
// JSON reply helpers.
package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a whole request/response exchange.
const DefaultTimeout = 30 * time.Second

// HTTPClient is the subset of *http.Client the tracker needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardClient wraps *http.Client to implement HTTPClient.
type StandardClient struct {
	*http.Client
}

// NewStandardClient wraps c. A nil c gets a fresh client with DefaultTimeout.
func NewStandardClient(c *http.Client) *StandardClient {
	if c == nil {
		c = &http.Client{Timeout: DefaultTimeout}
	}
	return &StandardClient{Client: c}
}

// NewTimeoutClient returns a StandardClient whose requests give up after
// timeout. A non-positive timeout falls back to DefaultTimeout.
func NewTimeoutClient(timeout time.Duration) *StandardClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewStandardClient(&http.Client{Timeout: timeout})
}
