// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing
// and flag binding. Command execution is delegated to handler functions in the
// handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/qhub/cmd/qhub/handlers"
)

// Root returns the root command for the qhub CLI.
func Root() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:           "qhub",
		Short:         "Validate and render qhub deployment configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return handlers.SetupLogging(logLevel, logFormat)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off (env QHUB_LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console or json")

	cmd.AddCommand(Validate())
	cmd.AddCommand(RenderConfig())
	cmd.AddCommand(Version())

	return cmd
}
