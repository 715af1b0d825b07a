// Package monitoring holds the tracker's diagnostic logger and its Prometheus
// metrics.
package monitoring

import (
	"log"
	"os"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Console output meant for the user does not go
// through here.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose routes diagnostics to stderr when verbose is true and mutes them
// otherwise.
func SetVerbose(verbose bool) {
	if !verbose {
		SetLogger(nil)
		return
	}
	SetLogger(log.New(os.Stderr, "tracker: ", log.LstdFlags|log.Lmsgprefix).Printf)
}
