// Package stellarium queries Stellarium's Remote Control HTTP API for the
// currently selected object.
package stellarium

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/banshee-data/telescope.tracker/internal/httputil"
)

const (
	// DefaultHost is where the Remote Control plugin listens.
	DefaultHost = "localhost"

	objectInfoPath = "/api/objects/info"
	maxBodySize    = 1 << 20
)

// Client performs one object query per call. It does not retry or cache.
type Client struct {
	http httputil.HTTPClient

	// Host overrides DefaultHost. Tests point it at 127.0.0.1.
	Host string
}

// NewClient creates a Client that sends requests through c. A nil c uses a
// StandardClient with the default timeout.
func NewClient(c httputil.HTTPClient) *Client {
	if c == nil {
		c = httputil.NewStandardClient(nil)
	}
	return &Client{http: c, Host: DefaultHost}
}

// URL returns the object info endpoint for the given API port.
func (c *Client) URL(port uint16) string {
	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	return fmt.Sprintf("http://%s:%d%s?format=json", host, port, objectInfoPath)
}

// Query fetches the selected object from the API on port. Every failure is a
// *QueryError; objects below the horizon are reported as KindNotAboveHorizon
// and never returned.
func (c *Client) Query(ctx context.Context, port uint16) (*TrackedObject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(port), nil)
	if err != nil {
		return nil, &QueryError{Kind: KindRequest, Port: port, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &QueryError{Kind: KindRequest, Port: port, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &QueryError{Kind: KindObjectNotFound, Port: port, StatusCode: resp.StatusCode}
	default:
		return nil, &QueryError{
			Kind:       KindUnexpected,
			Port:       port,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &QueryError{Kind: KindUnableToParse, Port: port, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if len(body) > maxBodySize {
		return nil, &QueryError{Kind: KindUnableToParse, Port: port, StatusCode: resp.StatusCode, Err: fmt.Errorf("body exceeds %d bytes", maxBodySize)}
	}

	obj, err := decodeObject(body)
	if err != nil {
		return nil, &QueryError{Kind: KindUnableToParse, Port: port, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode object info: %w", err)}
	}
	if !obj.AboveHorizon {
		return nil, &QueryError{Kind: KindNotAboveHorizon, Port: port, StatusCode: resp.StatusCode}
	}
	return obj, nil
}
