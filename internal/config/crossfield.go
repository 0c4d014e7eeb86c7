package config

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// crossValidate checks the rules that span several fields. A rule is
// skipped when a field it reads already carries an issue, so each problem
// is reported once.
func (e *Engine) crossValidate(ctx context.Context, log zerolog.Logger, c *Config, issues *issueList) []Issue {
	checkCloudBlocks(c, issues)
	checkExtContainerReg(c, issues)
	checkCertificate(c, issues)
	checkDefaultProfile(c, issues)

	var warnings []Issue
	warnings = append(warnings, e.checkKubernetesVersion(ctx, log, c, issues)...)
	e.checkKubeContext(ctx, log, c, issues)
	return warnings
}

func checkCloudBlocks(c *Config, issues *issueList) {
	if issues.has(field.NewPath("provider")) {
		return
	}
	for p := range c.cloudBlocks() {
		if p != c.Provider {
			issues.cross(field.NewPath(SectionKey(p)),
				"%s block is set but provider is %q; only the %s block may be set",
				SectionKey(p), c.Provider, SectionKey(c.Provider))
		}
	}
}

func checkExtContainerReg(c *Config, issues *issueList) {
	reg := c.ExtContainerReg
	base := field.NewPath("external_container_reg")
	if reg == nil || reg.Enabled == nil || !*reg.Enabled || issues.has(base.Child("enabled")) {
		return
	}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"access_key_id", reg.AccessKeyID},
		{"secret_access_key", reg.SecretAccessKey},
		{"extcr_account", reg.ExtCRAccount},
		{"extcr_region", reg.ExtCRRegion},
	} {
		if strings.TrimSpace(f.value) == "" {
			issues.cross(base.Child(f.name),
				"external_container_reg must contain a non-blank %s when enabled is true", f.name)
		}
	}
}

func checkCertificate(c *Config, issues *issueList) {
	base := field.NewPath("certificate")
	if issues.has(base.Child("type")) {
		return
	}
	switch c.Certificate.Type {
	case CertificateLetsEncrypt:
		if c.Certificate.ACMEEmail == "" && !issues.has(base.Child("acme_email")) {
			issues.cross(base.Child("acme_email"), "acme_email is required when certificate type is %s", CertificateLetsEncrypt)
		}
	case CertificateExisting:
		if c.Certificate.SecretName == "" {
			issues.cross(base.Child("secret_name"), "secret_name is required when certificate type is %s", CertificateExisting)
		}
	}
}

func checkDefaultProfile(c *Config, issues *issueList) {
	if c.Profiles.defaultProfileCount() > 1 {
		issues.cross(field.NewPath("profiles", "jupyterlab"),
			"Multiple default Jupyterlab profiles may cause unexpected problems.")
	}
}

// checkKubernetesVersion fills a missing kubernetes_version with the newest
// version the provider offers, or checks a supplied one for membership.
// A lookup failure is a warning for a defaulted value and an issue for a
// supplied one.
func (e *Engine) checkKubernetesVersion(ctx context.Context, log zerolog.Logger, c *Config, issues *issueList) []Issue {
	cloud, ok := c.Cloud().(ManagedCloud)
	if !ok || issues.has(field.NewPath("provider")) {
		return nil
	}
	section := field.NewPath(SectionKey(c.Provider))
	if issues.has(section.Child("region")) {
		return nil
	}
	path := section.Child("kubernetes_version")
	if issues.has(path) {
		return nil
	}
	declared := cloud.GetKubernetesVersion()

	versions, err := e.kubernetesVersions(ctx, c.Provider, cloud.GetRegion())
	if err == nil && len(versions) == 0 {
		err = fmt.Errorf("%w: no kubernetes versions offered in region %q", ErrProviderUnavailable, cloud.GetRegion())
	}
	if err != nil {
		if declared != "" {
			issues.constraint(path, "kubernetes version %q cannot be checked: %v", declared, err)
			return nil
		}
		log.Warn().Err(err).Str("provider", string(c.Provider)).Msg("Leaving kubernetes_version unset")
		return []Issue{{
			Path:    path.String(),
			Kind:    KindProviderUnavailable,
			Message: fmt.Sprintf("kubernetes_version left unset: %v", err),
		}}
	}

	if declared == "" {
		newest := versions[len(versions)-1]
		log.Debug().Str("provider", string(c.Provider)).Str("version", newest).Msg("Defaulted kubernetes_version")
		cloud.SetKubernetesVersion(newest)
		return nil
	}
	if !slices.Contains(versions, declared) {
		issues.cross(path, "kubernetes version %q not in %s allowed kubernetes versions: %s",
			declared, c.Provider.DisplayName(), strings.Join(versions, ", "))
	}
	return nil
}

func (e *Engine) kubernetesVersions(ctx context.Context, p ProviderType, region string) ([]string, error) {
	lister, ok := e.versions[p]
	if !ok || lister == nil {
		return nil, fmt.Errorf("%w: no version lister for %s", ErrProviderUnavailable, p)
	}

	start := time.Now()
	versions, err := lister.KubernetesVersions(ctx, region)
	e.recorder.ObserveLookup(p, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	return versions, nil
}

func (e *Engine) checkKubeContext(ctx context.Context, log zerolog.Logger, c *Config, issues *issueList) {
	if c.Provider != ProviderLocal || c.Local == nil || c.Local.KubeContext == "" || e.contexts == nil {
		return
	}
	path := field.NewPath("local", "kube_context")

	start := time.Now()
	contexts, err := e.contexts.Contexts(ctx)
	e.recorder.ObserveLookup(ProviderLocal, time.Since(start), err)
	if err != nil {
		issues.constraint(path, "kube context %q cannot be checked: %v", c.Local.KubeContext, err)
		return
	}
	log.Debug().Int("contexts", len(contexts)).Msg("Listed kube contexts")
	if !slices.Contains(contexts, c.Local.KubeContext) {
		issues.cross(path, "kube context %q not found in kubeconfig; available contexts: %s",
			c.Local.KubeContext, strings.Join(contexts, ", "))
	}
}
