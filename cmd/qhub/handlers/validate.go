package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/imamik/qhub/internal/config"
	"github.com/imamik/qhub/internal/metrics"
	"github.com/imamik/qhub/internal/platform"
	"github.com/imamik/qhub/internal/store"
)

// ErrInvalid is returned when a document fails validation.
var ErrInvalid = errors.New("config is invalid")

// ValidateOptions are the inputs of the validate command.
type ValidateOptions struct {
	ConfigPath  string
	Offline     bool
	Watch       bool
	JSON        bool
	Linter      bool
	MetricsFile string
	Kubeconfig  string
}

// stdout is where reports are written.
var stdout io.Writer = os.Stdout

// Validate checks a document and prints the result. In watch mode it
// revalidates on every change until ctx is cancelled.
func Validate(ctx context.Context, opts ValidateOptions) error {
	loc, err := store.ParseLocation(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Watch && loc.IsRemote() {
		return fmt.Errorf("--watch needs a local file, not %s", loc)
	}

	recorder := metrics.NewRecorder()
	engine := newEngine(platform.Options{Offline: opts.Offline, Kubeconfig: opts.Kubeconfig}, config.WithRecorder(recorder))
	st := newStore(engine)

	run := func() *Report {
		cfg, err := st.Load(ctx, loc)
		report := newReport(loc.String(), cfg, err)
		if printErr := printReport(report, opts); printErr != nil {
			logger.Error().Err(printErr).Msg("Failed to print report")
		}
		if opts.MetricsFile != "" {
			if err := recorder.WriteToTextfile(opts.MetricsFile); err != nil {
				logger.Error().Err(err).Msg("Failed to write metrics")
			}
		}
		return report
	}

	report := run()
	if opts.Watch {
		return watchFile(ctx, loc.Path, func() { run() })
	}
	if !report.Valid {
		return ErrInvalid
	}
	return nil
}

func printReport(r *Report, opts ValidateOptions) error {
	switch {
	case opts.JSON:
		return printReportJSON(stdout, r)
	case opts.Linter:
		_, err := io.WriteString(stdout, linterMessage(r))
		return err
	case isInteractiveTTY():
		printReportStyled(stdout, r)
	default:
		printReportPlain(stdout, r)
	}
	return nil
}
