// Package monitoring holds the diagnostic logger shared by the plotting
// packages.
package monitoring

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// Logf is the package-level diagnostic logger. It defaults to logrus at
// debug level but may be replaced by SetLogger. Tests or production code can
// redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Debugf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Configure points the standard logrus logger at w with a text formatter.
// Verbose enables the debug messages emitted through Logf.
func Configure(w io.Writer, verbose bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
		log.Debug("Set log level to debug")
	}
}
