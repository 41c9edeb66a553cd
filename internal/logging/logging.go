// Package logging builds the process logger shared by every rps command.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// TimeFormat is the timestamp layout used in log lines.
const TimeFormat = "15:04:05"

// Options configures a logger
type Options struct {
	Level  string
	Output io.Writer
	Prefix string
}

// New creates a logger writing to opts.Output, or stderr when unset.
func New(opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Prefix:          opts.Prefix,
	}), nil
}

// OpenFile opens a log file for appending, creating it if needed. Used when
// the terminal UI owns stdout and stderr.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
