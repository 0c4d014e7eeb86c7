package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/qhub/internal/config"
	"github.com/imamik/qhub/internal/platform"
	"github.com/imamik/qhub/internal/store"
)

// RenderOptions are the inputs of the render-config command.
type RenderOptions struct {
	config.RenderOptions

	Output        string
	Force         bool
	DisablePrompt bool
	Offline       bool
}

// Factory function variables for render-config - can be replaced in tests.
var (
	// runPrompts asks for the values the flags left out.
	runPrompts = promptMissing
)

// RenderConfig builds a new document, validates it and writes it out.
func RenderConfig(ctx context.Context, opts RenderOptions) error {
	if !opts.DisablePrompt && needsPrompt(opts) {
		if err := runPrompts(ctx, &opts.RenderOptions); err != nil {
			return fmt.Errorf("prompt canceled: %w", err)
		}
	}
	if opts.ProjectName == "" || opts.Domain == "" {
		return errors.New("project name and domain are required (use --project-name and --domain)")
	}
	if err := config.ValidateName(opts.ProjectName); err != nil {
		return fmt.Errorf("invalid project name: %w", err)
	}

	loc, err := store.ParseLocation(opts.Output)
	if err != nil {
		return err
	}

	rendered, err := config.Render(opts.RenderOptions)
	if err != nil {
		return err
	}

	engine := newEngine(platform.Options{Offline: opts.Offline})
	cfg, err := engine.Revalidate(ctx, rendered)
	if err != nil {
		return fmt.Errorf("rendered config is invalid: %w", err)
	}

	if err := newStore(engine).Save(ctx, loc, cfg, opts.Force); err != nil {
		if errors.Is(err, store.ErrExists) {
			return fmt.Errorf("%s already exists; use --force to overwrite", loc)
		}
		return err
	}

	printRenderSuccess(loc.String(), cfg)
	return nil
}

func needsPrompt(opts RenderOptions) bool {
	return (opts.ProjectName == "" || opts.Domain == "") && isInteractiveTTY()
}

// promptMissing fills in the project name and domain interactively.
func promptMissing(ctx context.Context, opts *config.RenderOptions) error {
	var fields []huh.Field
	if opts.ProjectName == "" {
		fields = append(fields, huh.NewInput().
			Title("Project name").
			Description("Used for resource names; letters, digits, '-' and '_'").
			Placeholder("qhub-demo").
			Value(&opts.ProjectName).
			Validate(config.ValidateName))
	}
	if opts.Domain == "" {
		fields = append(fields, huh.NewInput().
			Title("Domain").
			Description("Where the deployment will be reachable").
			Placeholder("qhub.example.com").
			Value(&opts.Domain).
			Validate(validateDomain))
	}
	return huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx)
}

func validateDomain(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("domain is required")
	}
	if strings.ContainsAny(s, " /:") {
		return fmt.Errorf("%q is not a bare domain name", s)
	}
	return nil
}

func printRenderSuccess(location string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File:     %s\n", location)
	fmt.Fprintf(stdout, "  Project:  %s\n", cfg.ProjectName)
	fmt.Fprintf(stdout, "  Domain:   %s\n", cfg.Domain)
	fmt.Fprintf(stdout, "  Provider: %s\n", cfg.Provider.DisplayName())
	if managed, ok := cfg.Cloud().(config.ManagedCloud); ok && managed.GetKubernetesVersion() != "" {
		fmt.Fprintf(stdout, "  Kubernetes: %s\n", managed.GetKubernetesVersion())
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "The Keycloak root password was generated and stored in")
	fmt.Fprintln(stdout, "security.keycloak.initial_root_password. Keep the file private.")
	fmt.Fprintln(stdout)
}
