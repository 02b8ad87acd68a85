package handlers

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ibm/data-gate-cli/internal/config"
)

// withConfig points the handlers at a fresh configuration file seeded with
// cfg and returns its path.
func withConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.PathEnv, path)
	for _, spec := range config.KnownCredentials {
		t.Setenv(config.EnvName(spec.Name), "")
	}
	if cfg != nil {
		require.NoError(t, cfg.Save(path))
	}
	return path
}

func readConfig(t *testing.T, path string) *config.Config {
	t.Helper()
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

// captureOutput redirects handler output into a buffer.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origStdout, origStderr := stdout, stderr
	stdout, stderr = &buf, &buf
	t.Cleanup(func() {
		stdout, stderr = origStdout, origStderr
	})
	return &buf
}
