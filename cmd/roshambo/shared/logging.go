// Package shared holds setup helpers used by every roshambo command.
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// SetupLogger configures a charmbracelet logger writing to w. level is a
// config value such as "info"; debug overrides it.
func SetupLogger(w io.Writer, level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if debug {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// SetupLogFile opens path for a command that owns the terminal, so logs do
// not draw over the UI.
func SetupLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

// DisableColor forces plain output for styled text and logs
func DisableColor(logger *log.Logger) {
	lipgloss.SetColorProfile(termenv.Ascii)
	if logger != nil {
		logger.SetColorProfile(termenv.Ascii)
	}
}
