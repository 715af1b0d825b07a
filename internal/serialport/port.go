// Package serialport opens and abstracts the serial link to the mount
// controller. The SerialPorter interface lets the tracker be tested without
// real hardware.
package serialport

import (
	"io"
	"time"
)

// SerialPorter defines the minimal interface needed for a serial port.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// TimeoutSerialPorter extends SerialPorter with a read timeout. The
// go.bug.st/serial port satisfies it.
type TimeoutSerialPorter interface {
	SerialPorter
	// SetReadTimeout bounds how long a Read waits for data. A Read that times
	// out returns 0, nil.
	SetReadTimeout(timeout time.Duration) error
}

// Opener opens a serial port at the given path.
type Opener interface {
	Open(path string, opts PortOptions) (SerialPorter, error)
}

// OpenerFunc adapts an ordinary function to the Opener interface.
type OpenerFunc func(path string, opts PortOptions) (SerialPorter, error)

// Open calls f(path, opts).
func (f OpenerFunc) Open(path string, opts PortOptions) (SerialPorter, error) {
	return f(path, opts)
}
