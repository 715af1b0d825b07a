// Package tracker runs the loop that forwards the selected Stellarium object's
// horizontal coordinates to the mount controller over serial.
package tracker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/banshee-data/telescope.tracker/internal/monitoring"
	"github.com/banshee-data/telescope.tracker/internal/serialport"
	"github.com/banshee-data/telescope.tracker/internal/stellarium"
)

const (
	// PollInterval is the pause after a successful iteration.
	PollInterval = 2 * time.Second

	// RetryInterval is the pause after a recoverable query failure.
	RetryInterval = 10 * time.Second

	ackSize = 7
)

var ackToken = []byte("msg_rec")

// ErrShortWrite is reported when the port accepts fewer bytes than the payload.
var ErrShortWrite = errors.New("short write to serial port")

// Querier fetches the currently selected object. *stellarium.Client
// implements it.
type Querier interface {
	Query(ctx context.Context, port uint16) (*stellarium.TrackedObject, error)
}

// Config carries the tracker's fixed settings.
type Config struct {
	// APIPort is the Stellarium Remote Control port.
	APIPort uint16

	// PortName names the serial port in console messages.
	PortName string

	// Metrics is optional.
	Metrics *monitoring.Metrics
}

// Outcome is the result of one iteration. A non-nil Err stops the loop; it
// is either a *FatalError or the context's error.
type Outcome struct {
	Delay time.Duration
	Err   error
}

// FatalError ends the loop. Op is "query" or "write".
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Tracker owns the serial port for the lifetime of the loop. Step and Run
// must be called from a single goroutine; Status is safe to call from any.
type Tracker struct {
	cfg    Config
	client Querier
	port   serialport.SerialPorter
	out    io.Writer

	sleep func(context.Context, time.Duration) error
	now   func() time.Time

	// lastObject is the identifier of the last announced object. Only the
	// loop goroutine touches it.
	lastObject string

	mu     sync.RWMutex
	status Status
}

// New creates a Tracker that polls client, writes to port, and prints console
// output to out.
func New(cfg Config, client Querier, port serialport.SerialPorter, out io.Writer) *Tracker {
	if out == nil {
		out = io.Discard
	}
	return &Tracker{
		cfg:    cfg,
		client: client,
		port:   port,
		out:    out,
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// Run repeats Step until a fatal error or until ctx is cancelled, in which
// case it returns ctx.Err().
func (t *Tracker) Run(ctx context.Context) error {
	monitoring.Logf("tracking Stellarium on port %d via %s", t.cfg.APIPort, t.cfg.PortName)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		o := t.Step(ctx)
		if o.Err != nil {
			return o.Err
		}
		if err := t.sleep(ctx, o.Delay); err != nil {
			return err
		}
	}
}

// Step performs one query, and on success one serial write and one
// acknowledgement read. It reports how long to wait before the next step.
func (t *Tracker) Step(ctx context.Context) Outcome {
	obj, err := t.client.Query(ctx, t.cfg.APIPort)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{Err: ctxErr}
		}
		return t.queryFailed(err)
	}
	return t.track(obj)
}

func (t *Tracker) queryFailed(err error) Outcome {
	t.lastObject = ""

	kind := stellarium.KindOf(err)
	t.cfg.Metrics.ObservePoll(resultLabel(kind))
	if cause := errors.Unwrap(err); cause != nil {
		monitoring.Logf("query failed (%s): %v", resultLabel(kind), cause)
	}

	fmt.Fprintln(t.out)
	fmt.Fprintf(t.out, "Error: %v\n", err)

	t.publish(func(s *Status) {
		s.Tracking = false
		s.Object = nil
		s.LastError = err.Error()
	})

	if !kind.Retryable() {
		return Outcome{Err: &FatalError{Op: "query", Err: err}}
	}
	fmt.Fprintf(t.out, "Will try again in %d seconds.\n", int(RetryInterval/time.Second))
	return Outcome{Delay: RetryInterval}
}

func (t *Tracker) track(obj *stellarium.TrackedObject) Outcome {
	t.cfg.Metrics.ObservePoll("ok")

	if obj.Name != t.lastObject {
		t.lastObject = obj.Name
		fmt.Fprintln(t.out)
		fmt.Fprintf(t.out, "Tracking %s (%s, %s): %.3f, %.3f\n",
			obj.LocalizedName, obj.Name, obj.ObjectType, obj.Azimuth, obj.Altitude)
	}

	payload := FormatPayload(obj.Azimuth, obj.Altitude)
	if err := t.write(payload); err != nil {
		fmt.Fprintf(t.out, "Could not write data to serial port %s\n", t.cfg.PortName)
		t.publish(func(s *Status) { s.LastError = err.Error() })
		return Outcome{Err: &FatalError{Op: "write", Err: err}}
	}
	t.cfg.Metrics.ObserveWrite(obj.Azimuth, obj.Altitude)

	acked := t.readAck()
	if acked {
		t.cfg.Metrics.ObserveAck()
		fmt.Fprint(t.out, ".")
		flush(t.out)
	}

	snapshot := *obj
	t.publish(func(s *Status) {
		s.Tracking = true
		s.Object = &snapshot
		s.LastPayload = payload
		s.LastError = ""
		if acked {
			s.Acks++
		}
	})
	return Outcome{Delay: PollInterval}
}

func (t *Tracker) write(payload string) error {
	n, err := t.port.Write([]byte(payload))
	if err != nil {
		return fmt.Errorf("could not write data to serial port %s: %w", t.cfg.PortName, err)
	}
	if n != len(payload) {
		return fmt.Errorf("%w %s: wrote %d of %d bytes", ErrShortWrite, t.cfg.PortName, n, len(payload))
	}
	return nil
}

// readAck makes one bounded read and reports whether the device answered
// with exactly "msg_rec". Timeouts, errors and other replies are not fatal.
func (t *Tracker) readAck() bool {
	buf := make([]byte, ackSize)
	n, err := t.port.Read(buf)
	if err != nil {
		monitoring.Logf("acknowledgement read on %s failed: %v", t.cfg.PortName, err)
		return false
	}
	if bytes.Equal(buf[:n], ackToken) {
		return true
	}
	if n > 0 {
		monitoring.Logf("ignoring reply %q from %s", strings.ToValidUTF8(string(buf[:n]), "�"), t.cfg.PortName)
	}
	return false
}

// FormatPayload renders the coordinate payload sent to the device:
// "azimuth,altitude" with three decimals and no terminator.
func FormatPayload(azimuth, altitude float64) string {
	return fmt.Sprintf("%.3f,%.3f", azimuth, altitude)
}

func resultLabel(k stellarium.Kind) string {
	if k == 0 {
		return "unknown"
	}
	return k.String()
}

func flush(w io.Writer) {
	if f, ok := w.(interface{ Flush() error }); ok {
		f.Flush()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
