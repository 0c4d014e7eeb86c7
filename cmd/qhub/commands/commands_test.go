package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "qhub", cmd.Use)
	assert.Equal(t, "Validate and render qhub deployment configurations", cmd.Short)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-format"))
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, expected := range []string{"validate", "render-config", "version"} {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), 3)
}

func TestValidate_Flags(t *testing.T) {
	cmd := Validate()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{name: "config", shorthand: "c", def: "qhub-config.yaml"},
		{name: "offline", def: "false"},
		{name: "watch", shorthand: "w", def: "false"},
		{name: "json", def: "false"},
		{name: "linter", def: "false"},
		{name: "metrics-file", def: ""},
		{name: "kubeconfig", def: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "%s flag should exist", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
	assert.NotNil(t, cmd.RunE)
}

func TestRenderConfig_Flags(t *testing.T) {
	cmd := RenderConfig()

	assert.Equal(t, "render-config", cmd.Use)
	assert.Contains(t, cmd.Aliases, "init")

	defaults := map[string]string{
		"output":             "qhub-config.yaml",
		"project-name":       "",
		"domain":             "",
		"provider":           "local",
		"ci-provider":        "none",
		"auth-provider":      "password",
		"namespace":          "",
		"terraform-state":    "",
		"kubernetes-version": "",
		"ssl-cert-email":     "",
		"disable-prompt":     "false",
		"offline":            "false",
		"force":              "false",
	}
	for name, def := range defaults {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "%s flag should exist", name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestRoot_InitAlias(t *testing.T) {
	cmd := Root()
	found, _, err := cmd.Find([]string{"init"})
	require.NoError(t, err)
	assert.Equal(t, "render-config", found.Name())
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = origVersion, origCommit, origDate
	})

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")

	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, "abc123", commit)
	assert.Equal(t, "2026-01-01", date)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	t.Setenv("QHUB_LOG_LEVEL", "")
	cmd := Root()
	cmd.SetArgs([]string{"--log-level", "loud", "version"})
	err := cmd.Execute()
	assert.ErrorContains(t, err, "unknown log level")
}
