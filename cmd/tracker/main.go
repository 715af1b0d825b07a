// Command tracker forwards the object selected in Stellarium to a telescope
// mount controller over a serial port.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/telescope.tracker/internal/config"
	"github.com/banshee-data/telescope.tracker/internal/httputil"
	"github.com/banshee-data/telescope.tracker/internal/monitoring"
	"github.com/banshee-data/telescope.tracker/internal/serialport"
	"github.com/banshee-data/telescope.tracker/internal/stellarium"
	"github.com/banshee-data/telescope.tracker/internal/tracker"
	"github.com/banshee-data/telescope.tracker/internal/version"
)

const usage = `Track the object selected in Stellarium with a serial-driven telescope mount.

Usage:
  tracker [options] <serial-port> <api-port>
  tracker -h | --help
  tracker --version

Arguments:
  <serial-port>  The serial port the mount controller is connected to.
  <api-port>     The port Stellarium's Remote Control API listens on.

Options:
  -h --help              Show this screen.
  --version              Show version.
  -c --config=<path>     TOML configuration file.
  --debug-listen=<addr>  Serve /debug/ routes on this address.
  -v --verbose           Log diagnostic detail to stderr.
`

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

const shutdownTimeout = 1 * time.Second

// env holds the process's outside world so tests can replace it.
type env struct {
	stdout io.Writer
	stderr io.Writer
	opener serialport.Opener

	// apiHost overrides the Stellarium host; empty keeps the default.
	apiHost string
}

type options struct {
	serialPort  string
	apiPort     uint16
	configPath  string
	debugListen string
	verbose     bool
}

// errHelp signals that help or version text was printed.
var errHelp = errors.New("help requested")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], env{
		stdout: os.Stdout,
		stderr: os.Stderr,
		opener: serialport.DefaultOpener,
	}))
}

func run(ctx context.Context, args []string, e env) int {
	opts, err := parseArgs(args, e.stdout)
	if errors.Is(err, errHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(e.stderr, err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(e.stderr, "tracker: %v\n", err)
		return exitUsage
	}
	monitoring.SetVerbose(cfg.Verbose)

	port, err := e.opener.Open(opts.serialPort, serialport.DefaultPortOptions())
	if err != nil {
		monitoring.Logf("open %s: %v", opts.serialPort, err)
		fmt.Fprintf(e.stdout, "Could not open serial port %s\n", opts.serialPort)
		return exitFatal
	}
	defer func() {
		if err := port.Close(); err != nil {
			monitoring.Logf("closing %s: %v", opts.serialPort, err)
		}
	}()

	metrics, err := monitoring.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		fmt.Fprintf(e.stderr, "tracker: %v\n", err)
		return exitFatal
	}

	client := stellarium.NewClient(httputil.NewTimeoutClient(cfg.GetHTTPTimeout()))
	if e.apiHost != "" {
		client.Host = e.apiHost
	}
	tr := tracker.New(tracker.Config{
		APIPort:  opts.apiPort,
		PortName: opts.serialPort,
		Metrics:  metrics,
	}, client, port, e.stdout)

	var ln net.Listener
	if cfg.DebugListen != "" {
		ln, err = net.Listen("tcp", cfg.DebugListen)
		if err != nil {
			fmt.Fprintf(e.stderr, "tracker: debug listener: %v\n", err)
			return exitFatal
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tr.Run(gctx) })
	if ln != nil {
		mux := http.NewServeMux()
		tr.AttachAdminRoutes(mux)
		g.Go(func() error { return serveDebug(gctx, ln, mux) })
	}

	err = g.Wait()
	if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled)) {
		fmt.Fprintln(e.stdout)
		fmt.Fprintln(e.stdout, "Stopping...")
		return exitOK
	}

	var fe *tracker.FatalError
	if errors.As(err, &fe) {
		// The tracker has already explained the failure on the console.
		monitoring.Logf("stopped: %v", err)
	} else if err != nil {
		fmt.Fprintf(e.stderr, "tracker: %v\n", err)
	}
	return exitFatal
}

func parseArgs(args []string, stdout io.Writer) (*options, error) {
	var helpText string
	parser := &docopt.Parser{
		HelpHandler: func(_ error, text string) { helpText = text },
	}
	parsed, err := parser.ParseArgs(usage, args, version.String())
	if err != nil {
		if helpText == "" {
			return nil, err
		}
		return nil, errors.New(helpText)
	}
	if helpText != "" {
		fmt.Fprintln(stdout, helpText)
		return nil, errHelp
	}

	opts := &options{}
	if opts.serialPort, err = parsed.String("<serial-port>"); err != nil {
		return nil, err
	}
	rawPort, err := parsed.String("<api-port>")
	if err != nil {
		return nil, err
	}
	if opts.apiPort, err = parsePort(rawPort); err != nil {
		return nil, err
	}
	// Unset options are nil in the map, which String reports as an error.
	opts.configPath, _ = parsed.String("--config")
	opts.debugListen, _ = parsed.String("--debug-listen")
	opts.verbose, _ = parsed.Bool("--verbose")
	return opts, nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid api port %q: must be between 1 and 65535", s)
	}
	return uint16(n), nil
}

// loadConfig reads the optional file and applies command-line overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.debugListen != "" {
		cfg.DebugListen = opts.debugListen
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func serveDebug(ctx context.Context, ln net.Listener, h http.Handler) error {
	server := &http.Server{Handler: h}

	errc := make(chan error, 1)
	go func() {
		monitoring.Logf("debug server listening on %s", ln.Addr())
		errc <- server.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("debug server: %w", err)
	case <-ctx.Done():
	}

	monitoring.Logf("shutting down debug server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("debug server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			monitoring.Logf("debug server force close error: %v", err)
		}
	}
	return nil
}
