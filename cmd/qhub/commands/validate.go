package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/qhub/cmd/qhub/handlers"
)

// Validate returns the command for checking a configuration document.
//
// Flags:
//
//	--config, -c: Path or s3://bucket/key of the document (default "qhub-config.yaml")
//	--offline: Check Kubernetes versions against the pinned lists
//	--watch, -w: Revalidate whenever the file changes
//	--json: Print the report as JSON
//	--linter: Print the report as a CI linter comment
//	--metrics-file: Write Prometheus metrics in textfile format
//	--kubeconfig: Kubeconfig checked for local deployments
func Validate() *cobra.Command {
	var opts handlers.ValidateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a qhub configuration file",
		Long: `Validate a qhub configuration file.

Every problem is reported with the path of the field it concerns, for
example amazon_web_services.node_groups[general].max_nodes. The document
may be a local file or an s3://bucket/key object.

Kubernetes versions are checked against the cloud provider's API using
the credentials in the environment. Use --offline to check them against
the versions pinned in this release instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "qhub-config.yaml", "Config file path or s3:// URL")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Use pinned Kubernetes versions instead of provider APIs")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Revalidate whenever the file changes")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&opts.Linter, "linter", false, "Output the report as a CI linter comment")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	cmd.Flags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Kubeconfig for local deployments (default: $KUBECONFIG or ~/.kube/config)")
	cmd.MarkFlagsMutuallyExclusive("json", "linter")

	return cmd
}
