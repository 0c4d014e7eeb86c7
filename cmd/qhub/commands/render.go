package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/qhub/cmd/qhub/handlers"
	"github.com/imamik/qhub/internal/config"
)

// RenderConfig returns the command for creating a new configuration file.
func RenderConfig() *cobra.Command {
	var (
		opts           handlers.RenderOptions
		provider       string
		ciProvider     string
		authProvider   string
		terraformState string
	)

	cmd := &cobra.Command{
		Use:     "render-config",
		Aliases: []string{"init"},
		Short:   "Create a new qhub configuration file",
		Long: `Create a new qhub configuration file.

The file is built from the flags with every default filled in, including
generated passwords, then validated before it is written. Missing project
name and domain are prompted for unless --disable-prompt is set.

An existing file is never replaced unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Provider = config.ProviderType(provider)
			opts.CIProvider = config.CIType(ciProvider)
			opts.AuthProvider = config.AuthenticationType(authProvider)
			opts.TerraformState = config.TerraformStateType(terraformState)
			return handlers.RenderConfig(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "qhub-config.yaml", "Output file path or s3:// URL")
	cmd.Flags().StringVarP(&opts.ProjectName, "project-name", "p", "", "Project name")
	cmd.Flags().StringVarP(&opts.Domain, "domain", "d", "", "Domain the deployment is served from")
	cmd.Flags().StringVar(&provider, "provider", string(config.ProviderLocal), "Cloud provider: local, do, aws, gcp, azure")
	cmd.Flags().StringVar(&ciProvider, "ci-provider", string(config.CINone), "CI/CD system: github-actions, gitlab-ci, none")
	cmd.Flags().StringVar(&authProvider, "auth-provider", string(config.AuthPassword), "Authentication: password, GitHub, Auth0")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "Kubernetes namespace (default \"dev\")")
	cmd.Flags().StringVar(&terraformState, "terraform-state", "", "Terraform state backend: remote, local, existing")
	cmd.Flags().StringVar(&opts.KubernetesVersion, "kubernetes-version", "", "Kubernetes version (default: newest offered)")
	cmd.Flags().StringVar(&opts.SSLCertEmail, "ssl-cert-email", "", "Email for a Let's Encrypt certificate")
	cmd.Flags().BoolVar(&opts.DisablePrompt, "disable-prompt", false, "Never prompt for missing values")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Use pinned Kubernetes versions instead of provider APIs")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing file")

	return cmd
}
