package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/imamik/qhub/internal/util/ptr"
)

func paths(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Path)
	}
	return out
}

func TestCheckExtContainerReg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		reg  *ExtContainerReg
		want []string
	}{
		{name: "absent"},
		{name: "enabled unset", reg: &ExtContainerReg{}},
		{name: "disabled", reg: &ExtContainerReg{Enabled: ptr.Bool(false)}},
		{
			name: "enabled and complete",
			reg: &ExtContainerReg{
				Enabled:         ptr.Bool(true),
				AccessKeyID:     "AKIA",
				SecretAccessKey: "secret",
				ExtCRAccount:    "123456789012",
				ExtCRRegion:     "us-west-2",
			},
		},
		{
			name: "enabled with blanks",
			reg: &ExtContainerReg{
				Enabled:      ptr.Bool(true),
				AccessKeyID:  "AKIA",
				ExtCRAccount: "   ",
			},
			want: []string{
				"external_container_reg.secret_access_key",
				"external_container_reg.extcr_account",
				"external_container_reg.extcr_region",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New("demo", "demo.example.com", ProviderLocal)
			c.ExtContainerReg = tt.reg

			var issues issueList
			checkExtContainerReg(c, &issues)

			assert.Equal(t, tt.want, nilIfEmpty(paths(issues.items)))
			for _, i := range issues.items {
				assert.Equal(t, KindCrossField, i.Kind)
			}
		})
	}
}

func TestCheckCertificate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cert Certificate
		want []string
	}{
		{name: "self-signed", cert: Certificate{Type: CertificateSelfSigned}},
		{name: "lets-encrypt with email", cert: Certificate{Type: CertificateLetsEncrypt, ACMEEmail: "ops@example.com"}},
		{name: "lets-encrypt without email", cert: Certificate{Type: CertificateLetsEncrypt}, want: []string{"certificate.acme_email"}},
		{name: "existing with secret", cert: Certificate{Type: CertificateExisting, SecretName: "tls"}},
		{name: "existing without secret", cert: Certificate{Type: CertificateExisting}, want: []string{"certificate.secret_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New("demo", "demo.example.com", ProviderLocal)
			c.Certificate = tt.cert

			var issues issueList
			checkCertificate(c, &issues)
			assert.Equal(t, tt.want, nilIfEmpty(paths(issues.items)))
		})
	}
}

func TestCheckCertificate_SkipsWhenTypeInvalid(t *testing.T) {
	t.Parallel()

	c := New("demo", "demo.example.com", ProviderLocal)
	c.Certificate = Certificate{Type: CertificateLetsEncrypt}

	var issues issueList
	issues.constraint(field.NewPath("certificate", "type"), "bad type")
	checkCertificate(c, &issues)
	assert.Len(t, issues.items, 1)
}

func TestCheckCloudBlocks(t *testing.T) {
	t.Parallel()

	c := New("demo", "demo.example.com", ProviderAWS)
	c.AmazonWebServices = &AmazonWebServicesProvider{Region: "us-west-2"}
	c.Azure = &AzureProvider{Region: "Central US"}

	var issues issueList
	checkCloudBlocks(c, &issues)
	assert.Equal(t, []string{"azure"}, paths(issues.items))
	assert.Contains(t, issues.items[0].Message, `provider is "aws"`)
}

func TestCheckDefaultProfile(t *testing.T) {
	t.Parallel()

	c := New("demo", "demo.example.com", ProviderLocal)
	c.Profiles.JupyterLab = []JupyterLabProfile{
		{DisplayName: "a", Description: "a", Default: true},
		{DisplayName: "b", Description: "b"},
	}
	var issues issueList
	checkDefaultProfile(c, &issues)
	assert.Empty(t, issues.items)

	c.Profiles.JupyterLab[1].Default = true
	checkDefaultProfile(c, &issues)
	assert.Equal(t, []string{"profiles.jupyterlab"}, paths(issues.items))
}

func TestIssueList_Has(t *testing.T) {
	t.Parallel()

	var issues issueList
	issues.constraint(field.NewPath("amazon_web_services", "node_groups").Key("general").Child("max_nodes"), "too small")

	assert.True(t, issues.has(field.NewPath("amazon_web_services")))
	assert.True(t, issues.has(field.NewPath("amazon_web_services", "node_groups")))
	assert.False(t, issues.has(field.NewPath("amazon_web_services", "region")))
	assert.False(t, issues.has(field.NewPath("amazon")))
}
