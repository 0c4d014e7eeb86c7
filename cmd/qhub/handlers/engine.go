// Package handlers implements the business logic for CLI commands.
//
// Each handler receives parsed arguments from the commands package and
// performs the requested operation. External dependencies are held in
// package-level variables so tests can replace them.
package handlers

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/imamik/qhub/internal/config"
	"github.com/imamik/qhub/internal/logging"
	"github.com/imamik/qhub/internal/platform"
	"github.com/imamik/qhub/internal/store"
)

var (
	// logger is the process logger set up by SetupLogging.
	logger = zerolog.Nop()

	// engineOptions returns the provider lookups for a run.
	engineOptions = platform.EngineOptions

	// newStore creates the document store.
	newStore = func(engine *config.Engine) *store.Store {
		return store.New(engine)
	}

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// SetupLogging configures the logger shared by all handlers.
func SetupLogging(level, format string) error {
	l, err := logging.New(logging.Options{Level: level, Format: logging.Format(format)})
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// newEngine builds an engine with the lookups selected by opts.
func newEngine(opts platform.Options, extra ...config.Option) *config.Engine {
	all := append(engineOptions(opts), config.WithLogger(logger))
	return config.NewEngine(append(all, extra...)...)
}
