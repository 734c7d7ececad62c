// Package shared holds the small bits of setup every riposte subcommand
// needs: a configured logger and a signal-cancelable context.
package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a charmbracelet/log logger writing to stderr.
func SetupLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
