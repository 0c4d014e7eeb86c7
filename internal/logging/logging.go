// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LevelEnv overrides the configured level when set.
const LevelEnv = "QHUB_LOG_LEVEL"

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures New.
type Options struct {
	Level  string
	Format Format
	Out    io.Writer
	// Getenv reads LevelEnv. Defaults to os.Getenv.
	Getenv func(string) string
}

// New returns a logger writing to opts.Out (stderr by default). Logs go to
// stderr so they never mix with a validation report on stdout.
func New(opts Options) (zerolog.Logger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	levelName := opts.Level
	if env := getenv(LevelEnv); env != "" {
		levelName = env
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), err
	}

	switch opts.Format {
	case FormatConsole, "":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (valid: console, json)", opts.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// ParseLevel maps a level name to a zerolog level. An empty name is "warn",
// which keeps the CLI quiet unless a lookup degrades.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zerolog.WarnLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "off", "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error, off)", name)
	}
}
