package handlers

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imamik/qhub/internal/config"
	"github.com/imamik/qhub/internal/platform"
	"github.com/imamik/qhub/internal/store"
)

const validDoc = `project_name: demo
domain: demo.example.com
provider: do
qhub_version: 0.4.0
`

// syncBuffer is a bytes.Buffer safe for the watch goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// saveAndRestoreFactories points handlers at offline lookups and a
// captured stdout for the duration of a test.
func saveAndRestoreFactories(t *testing.T) *syncBuffer {
	t.Helper()

	origEngineOptions := engineOptions
	origNewStore := newStore
	origTTY := isInteractiveTTY
	origStdout := stdout
	origPrompts := runPrompts

	t.Cleanup(func() {
		engineOptions = origEngineOptions
		newStore = origNewStore
		isInteractiveTTY = origTTY
		stdout = origStdout
		runPrompts = origPrompts
	})

	out := &syncBuffer{}
	stdout = out
	isInteractiveTTY = func() bool { return false }
	engineOptions = func(platform.Options) []config.Option {
		return append(platform.EngineOptions(platform.Options{Offline: true}),
			config.WithEnvironment(func(string) string { return "" }))
	}
	newStore = func(engine *config.Engine) *store.Store {
		return store.New(engine)
	}
	return out
}

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qhub-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}
