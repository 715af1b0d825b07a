package serialport

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/banshee-data/telescope.tracker/internal/monitoring"
)

// Open opens the serial port at path and applies the read timeout from opts.
// The returned port is owned by the caller, who must Close it.
func Open(path string, opts PortOptions) (SerialPorter, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	if err := port.SetReadTimeout(opts.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", path, err)
	}

	monitoring.Logf("opened serial port %s (%s, read timeout %s)", path, opts, opts.ReadTimeout)
	return port, nil
}

// DefaultOpener opens real serial ports via go.bug.st/serial.
var DefaultOpener Opener = OpenerFunc(Open)
