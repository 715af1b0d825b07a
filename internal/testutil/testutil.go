// Package testutil provides shared test fixtures: a fake Stellarium Remote
// Control server and helpers for ports that refuse connections.
package testutil

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

// ObjectInfoPath is the endpoint served by StellariumAPI.
const ObjectInfoPath = "/api/objects/info"

// Response is one canned answer from StellariumAPI.
type Response struct {
	Status int
	Body   string
}

// StellariumAPI is a fake Remote Control server. Responses are served in the
// order they were queued; the last one repeats once the queue is drained.
// With nothing queued it answers 404, as Stellarium does with no selection.
type StellariumAPI struct {
	*httptest.Server

	mu        sync.Mutex
	responses []Response
	requests  []*http.Request
}

// NewStellariumAPI starts a fake server that is closed when the test ends.
func NewStellariumAPI(t testing.TB) *StellariumAPI {
	t.Helper()
	api := &StellariumAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Close)
	return api
}

func (a *StellariumAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.requests = append(a.requests, r.Clone(r.Context()))
	resp := Response{Status: http.StatusNotFound}
	if len(a.responses) > 0 {
		resp = a.responses[0]
		if len(a.responses) > 1 {
			a.responses = a.responses[1:]
		}
	}
	a.mu.Unlock()

	if r.URL.Path != ObjectInfoPath {
		http.NotFound(w, r)
		return
	}
	if resp.Status == http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.Status)
	w.Write([]byte(resp.Body))
}

// Respond queues a raw response.
func (a *StellariumAPI) Respond(status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = append(a.responses, Response{Status: status, Body: body})
}

// Select queues a 200 response carrying v encoded as JSON.
func (a *StellariumAPI) Select(t testing.TB, v any) {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode object info: %v", err)
	}
	a.Respond(http.StatusOK, string(body))
}

// Deselect queues the 404 Stellarium sends when nothing is selected.
func (a *StellariumAPI) Deselect() {
	a.Respond(http.StatusNotFound, "")
}

// Port returns the TCP port the server listens on.
func (a *StellariumAPI) Port(t testing.TB) uint16 {
	t.Helper()
	u, err := url.Parse(a.URL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}
	return parsePort(t, u.Port())
}

// Requests returns a copy of the requests received so far.
func (a *StellariumAPI) Requests() []*http.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*http.Request(nil), a.requests...)
}

// ClosedPort returns a loopback port with nothing listening on it.
func ClosedPort(t testing.TB) uint16 {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	_, port, err := net.SplitHostPort(l.Addr().String())
	if err != nil {
		t.Fatalf("failed to split listener address: %v", err)
	}
	l.Close()
	return parsePort(t, port)
}

func parsePort(t testing.TB, s string) uint16 {
	t.Helper()
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		t.Fatalf("invalid port %q: %v", s, err)
	}
	return uint16(p)
}
