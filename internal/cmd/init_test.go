package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhnc/appupdater/internal/config"
	"github.com/minhnc/appupdater/internal/types"
)

// chdirTemp changes into a fresh temp dir for the test and restores the
// original working directory on cleanup (t.Chdir needs Go 1.24+).
func chdirTemp(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestInitWritesLoadableConfig(t *testing.T) {
	chdirTemp(t)
	quiet = true
	defer func() { quiet = false }()

	cmd := newInitCmd()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Load("appupdater.toml")
	require.NoError(t, err)
	assert.Equal(t, types.PlatformAndroid, cfg.App.Platform)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	chdirTemp(t)
	quiet = true
	defer func() { quiet = false }()

	require.NoError(t, os.WriteFile("appupdater.toml", []byte("# mine"), 0644))

	cmd := newInitCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// --force replaces it.
	cmd = newInitCmd()
	cmd.SetArgs([]string{"--force"})
	require.NoError(t, cmd.Execute())

	_, err = config.Load("appupdater.toml")
	require.NoError(t, err)
}

func TestInitYAMLFormat(t *testing.T) {
	chdirTemp(t)
	quiet = true
	defer func() { quiet = false }()

	cmd := newInitCmd()
	cmd.SetArgs([]string{"--template", "ios", "--format", "yaml"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Load("appupdater.yaml")
	require.NoError(t, err)
	assert.Equal(t, types.PlatformIOS, cfg.App.Platform)
	assert.Equal(t, types.UpdateModeRemote, cfg.Update.Mode)
}
