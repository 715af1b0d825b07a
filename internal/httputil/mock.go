package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ErrNoReply is returned by MockHTTPClient once its script is exhausted.
var ErrNoReply = errors.New("mock http client: no reply scripted")

type scriptedReply struct {
	status int
	body   string
	err    error
}

// MockHTTPClient replays a script of replies, one per Do call, and records
// every request it sees.
type MockHTTPClient struct {
	mu       sync.Mutex
	script   []scriptedReply
	requests []*http.Request

	// DoFunc, if set, answers every request instead of the script.
	DoFunc func(req *http.Request) (*http.Response, error)
}

// NewMockHTTPClient returns a client with an empty script.
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{}
}

// AddResponse appends a JSON reply with the given status and body.
func (m *MockHTTPClient) AddResponse(status int, body string) *MockHTTPClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptedReply{status: status, body: body})
	return m
}

// AddErrorResponse appends a transport failure.
func (m *MockHTTPClient) AddErrorResponse(err error) *MockHTTPClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptedReply{err: err})
	return m
}

// Do pops the next scripted reply.
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if m.DoFunc != nil {
		do := m.DoFunc
		m.mu.Unlock()
		return do(req)
	}
	if len(m.script) == 0 {
		m.mu.Unlock()
		return nil, ErrNoReply
	}
	next := m.script[0]
	m.script = m.script[1:]
	m.mu.Unlock()

	if next.err != nil {
		return nil, next.err
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", next.status, http.StatusText(next.status)),
		StatusCode:    next.status,
		Header:        http.Header{"Content-Type": {"application/json"}},
		Body:          io.NopCloser(strings.NewReader(next.body)),
		ContentLength: int64(len(next.body)),
		Request:       req,
	}, nil
}

// Requests returns the requests received so far.
func (m *MockHTTPClient) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request(nil), m.requests...)
}

// RequestCount returns the number of requests received so far.
func (m *MockHTTPClient) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Pending returns the number of scripted replies not yet consumed.
func (m *MockHTTPClient) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}

var _ HTTPClient = (*MockHTTPClient)(nil)
