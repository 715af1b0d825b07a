package serialport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the rate the mount controller firmware listens on.
	DefaultBaudRate = 9600

	// DefaultReadTimeout bounds the acknowledgement read after each write.
	DefaultReadTimeout = 2 * time.Second
)

// PortOptions holds the parameters that vary between ports. Framing is always
// 8 data bits, no parity, one stop bit.
type PortOptions struct {
	BaudRate    int
	ReadTimeout time.Duration
}

// DefaultPortOptions returns 9600 baud with a two second read timeout.
func DefaultPortOptions() PortOptions {
	return PortOptions{BaudRate: DefaultBaudRate, ReadTimeout: DefaultReadTimeout}
}

// Normalize fills zero values with defaults and rejects negative ones.
func (o PortOptions) Normalize() (PortOptions, error) {
	if o.BaudRate < 0 {
		return o, fmt.Errorf("invalid baud rate %d", o.BaudRate)
	}
	if o.BaudRate == 0 {
		o.BaudRate = DefaultBaudRate
	}
	if o.ReadTimeout < 0 {
		return o, fmt.Errorf("invalid read timeout %s: must not be negative", o.ReadTimeout)
	}
	if o.ReadTimeout == 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	return o, nil
}

// String renders the options in the usual "9600 8N1" shorthand.
func (o PortOptions) String() string {
	return fmt.Sprintf("%d 8N1", o.BaudRate)
}

// SerialMode converts the options into the serial.Mode go.bug.st/serial
// expects.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	return &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}, nil
}
