package serialport

import (
	"errors"
	"sync"
	"time"
)

// ErrPortClosed is returned by TestableSerialPort once Close has been called.
var ErrPortClosed = errors.New("serial port closed")

// TestableSerialPort stands in for the mount controller. Each successful
// Write is recorded and, if Reply is set, answered the way the firmware
// answers a coordinate payload. Read drains pending replies and returns 0, nil
// when there are none, like a real port whose read timeout expired.
//
// Exported fields may be set before use; read them back only after the code
// under test has returned.
type TestableSerialPort struct {
	mu      sync.Mutex
	pending []byte
	writes  [][]byte

	Reply []byte

	// WriteError, ReadError and ShortWrite each affect only the next call.
	WriteError error
	ReadError  error
	ShortWrite bool

	ReadTimeout time.Duration
	ReadCalls   int
	WriteCalls  int
	Closed      bool
}

// NewTestableSerialPort returns an idle port with no scripted reply.
func NewTestableSerialPort() *TestableSerialPort {
	return &TestableSerialPort{}
}

func (p *TestableSerialPort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ReadCalls++

	switch {
	case p.Closed:
		return 0, ErrPortClosed
	case p.ReadError != nil:
		err := p.ReadError
		p.ReadError = nil
		return 0, err
	}
	n := copy(buf, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *TestableSerialPort) Write(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.WriteCalls++

	switch {
	case p.Closed:
		return 0, ErrPortClosed
	case p.WriteError != nil:
		err := p.WriteError
		p.WriteError = nil
		return 0, err
	}

	accepted := buf
	if p.ShortWrite && len(buf) > 0 {
		p.ShortWrite = false
		accepted = buf[:len(buf)-1]
	}
	p.writes = append(p.writes, append([]byte(nil), accepted...))
	p.pending = append(p.pending, p.Reply...)
	return len(accepted), nil
}

func (p *TestableSerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// SetReadTimeout implements TimeoutSerialPorter.
func (p *TestableSerialPort) SetReadTimeout(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ReadTimeout = timeout
	return nil
}

// WrittenPayloads returns what each Write call delivered, in order.
func (p *TestableSerialPort) WrittenPayloads() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.writes))
	for i, w := range p.writes {
		out[i] = string(w)
	}
	return out
}

// IsClosed reports whether Close has been called. Safe to call while the
// port is in use.
func (p *TestableSerialPort) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Closed
}

// MockOpener hands out a fixed port, or fails with Error, and records every
// call.
type MockOpener struct {
	mu sync.Mutex

	Port      SerialPorter
	Error     error
	OpenCalls []MockOpenCall
}

// MockOpenCall records the arguments of one Open call.
type MockOpenCall struct {
	Path    string
	Options PortOptions
}

// NewMockOpener returns an opener that yields port.
func NewMockOpener(port SerialPorter) *MockOpener {
	return &MockOpener{Port: port}
}

// Open applies opts.ReadTimeout to the port when it supports one.
func (o *MockOpener) Open(path string, opts PortOptions) (SerialPorter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.OpenCalls = append(o.OpenCalls, MockOpenCall{Path: path, Options: opts})
	if o.Error != nil {
		return nil, o.Error
	}
	if tp, ok := o.Port.(TimeoutSerialPorter); ok {
		if err := tp.SetReadTimeout(opts.ReadTimeout); err != nil {
			return nil, err
		}
	}
	return o.Port, nil
}

// LastCall returns the most recent Open call, or nil if none.
func (o *MockOpener) LastCall() *MockOpenCall {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.OpenCalls) == 0 {
		return nil
	}
	c := o.OpenCalls[len(o.OpenCalls)-1]
	return &c
}
