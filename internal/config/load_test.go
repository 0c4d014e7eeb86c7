package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fullDoc = `
project_name: roundtrip
domain: qhub.example.com
provider: azure
qhub_version: 0.4.0rc2
namespace: prod
ci_cd:
  type: github-actions
  branch: deploy
  before_script:
    - echo hello
certificate:
  type: lets-encrypt
  acme_email: ops@example.com
helm_extensions:
  - name: redis
    repository: https://charts.bitnami.com/bitnami
    chart: redis
    version: 15.0.0
    overrides:
      auth:
        enabled: false
security:
  authentication:
    type: GitHub
    config:
      client_id: id
      client_secret: secret
  keycloak:
    initial_root_password: hunter2hunter2
external_container_reg:
  enabled: false
azure:
  region: West Europe
  node_groups:
    general:
      instance: Standard_D8_v3
      min_nodes: 1
      max_nodes: 1
      labels:
        tier: core
profiles:
  jupyterlab:
    - display_name: Only
      description: the only profile
      default: true
      groups: [admin]
      kubespawner_override:
        cpu_limit: 2
        cpu_guarantee: 1
        mem_limit: 8G
        mem_guarantee: 4G
        start_timeout: 600
environments:
  environment-ml.yaml:
    name: ml
    channels: [conda-forge]
    dependencies:
      - python=3.9
      - pip
      - pip:
          - torch
          - transformers
tf_extensions:
  - name: mlflow
    image: mlflow:latest
    urlslug: mlflow
    private: true
    envs:
      - name: BACKEND
        value: sqlite
`

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"minimal": minimalDoc,
		"full":    fullDoc,
		"aws":     strings.Replace(minimalDoc, "provider: do", "provider: aws", 1),
		"local":   strings.Replace(minimalDoc, "provider: do", "provider: local", 1),
		"empty collections": strings.Replace(minimalDoc, "provider: do", "provider: aws", 1) + `
ci_cd:
  type: gitlab-ci
  before_script: []
  after_script: []
terraform_state:
  type: remote
  backend: s3
  config: {}
amazon_web_services:
  availability_zones: []
profiles:
  jupyterlab:
    - display_name: Small
      description: small instance
      users: []
      groups: []
environments:
  environment-empty.yaml:
    name: empty
    channels: []
    dependencies:
      - python
tf_extensions:
  - name: mlflow
    image: mlflow:latest
    urlslug: mlflow
    envs: []
`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			e := testEngine()

			first, err := e.Parse(context.Background(), []byte(doc))
			require.NoError(t, err)
			firstOut, err := first.Marshal()
			require.NoError(t, err)

			second, err := e.Parse(context.Background(), firstOut)
			require.NoError(t, err)
			secondOut, err := second.Marshal()
			require.NoError(t, err)

			assert.Equal(t, string(firstOut), string(secondOut))
			assert.Equal(t, first, second)
		})
	}
}

func TestRoundTrip_GeneratedValuesPersist(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(minimalDoc, "provider: do", "provider: azure", 1)
	first, err := testEngine(WithSecretGenerator(fixedSecrets('q'))).Parse(context.Background(), []byte(doc))
	require.NoError(t, err)
	out, err := first.Marshal()
	require.NoError(t, err)

	failing := SecretGeneratorFunc(func(string, int) (string, error) {
		t.Fatal("generated values must not be regenerated")
		return "", nil
	})
	second, err := testEngine(WithSecretGenerator(failing)).Parse(context.Background(), out)
	require.NoError(t, err)

	assert.Equal(t, "qqqqqqqq", second.Azure.StoragePostfix)
	assert.Equal(t, strings.Repeat("q", 16), second.Security.Keycloak.InitialRootPassword)
}

func TestMarshal_CanonicalForm(t *testing.T) {
	t.Parallel()

	cfg, err := testEngine().Parse(context.Background(), []byte(fullDoc))
	require.NoError(t, err)
	out, err := cfg.Marshal()
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &node))
	root := node.Content[0]

	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	assert.Equal(t, []string{
		"project_name", "domain", "provider", "namespace", "qhub_version",
		"ci_cd", "terraform_state", "certificate", "helm_extensions", "prefect",
		"cdsdashboards", "security", "external_container_reg", "default_images",
		"storage", "azure", "theme", "profiles", "environments", "monitoring",
		"clearml", "tf_extensions", "jupyterhub", "prevent_deploy",
	}, keys)

	text := string(out)
	assert.Contains(t, text, "qhub_version: 0.4.0rc2", "declared version is preserved")
	assert.Contains(t, text, "start_timeout: 600")
	assert.Contains(t, text, "tier: core")
	assert.Contains(t, text, "- pip:\n")
	assert.NotContains(t, text, "kubernetes_version: \"\"")
}

func TestSave(t *testing.T) {
	t.Parallel()

	cfg, err := testEngine().Parse(context.Background(), []byte(minimalDoc))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "qhub-config.yaml")
	require.NoError(t, Save(cfg, path, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())

	err = Save(cfg, path, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)
	assert.Contains(t, err.Error(), "already exists")

	cfg.Namespace = "staging"
	require.NoError(t, Save(cfg, path, true))

	loaded, err := testEngine().LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "staging", loaded.Namespace)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := testEngine().LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
