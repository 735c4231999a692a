package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultConfig(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "ytkit")
	require.NoError(t, EnsureDefaultConfig(configDir))

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "search_limit")
	assert.Contains(t, string(data), "YTKIT_")
}

func TestEnsureDefaultConfigKeepsExisting(t *testing.T) {
	configDir := t.TempDir()
	path := filepath.Join(configDir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("search_limit = 3\n"), 0o644))

	require.NoError(t, EnsureDefaultConfig(configDir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "search_limit = 3\n", string(data))
}

func TestDefaultCommandRunnerUnknownBinary(t *testing.T) {
	runner := &DefaultCommandRunner{}

	out, err := runner.Run(context.Background(), "definitely-not-a-real-binary-xyz")

	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	dirs := []string{
		filepath.Join(base, "a"),
		filepath.Join(base, "b", "nested"),
	}

	require.NoError(t, EnsureDirs(dirs...))

	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
