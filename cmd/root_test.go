package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immich-face-album/internal/app"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"IMMICH_FACE_ALBUM_CONFIG", "IMMICH_SERVER", "IMMICH_ALBUM", "IMMICH_KEY",
		"IMMICH_EMAIL", "IMMICH_PASSWORD", "IMMICH_FACE", "IMMICH_SHARED_KEY",
		"IMMICH_MODE", "IMMICH_ON_ERROR", "SLEEP", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		// Flag values persist on the package-level commands.
		for _, name := range []string{"config", "mode", "on-error", "log-level"} {
			_ = rootCmd.PersistentFlags().Set(name, "")
		}
		_ = rootCmd.Flags().Set("once", "false")
	})
	return Execute(context.Background())
}

func TestRoot_MissingConfig(t *testing.T) {
	clearEnv(t)
	err := execute(t, "--once", "--log-level", "error")
	assert.ErrorIs(t, err, app.ErrConfigMissing)
}

func TestCheck_MissingConfig(t *testing.T) {
	clearEnv(t)
	err := execute(t, "check", "--mode", "session")
	assert.ErrorIs(t, err, app.ErrConfigMissing)
}

func TestRoot_InvalidFlags(t *testing.T) {
	clearEnv(t)
	require.Error(t, execute(t, "--once", "--mode", "oauth"))
	require.Error(t, execute(t, "--once", "--on-error", "retry"))
	require.Error(t, execute(t, "--once", "--log-level", "loud"))
}

func TestFlagValue_Unregistered(t *testing.T) {
	assert.Equal(t, false, mustGetBool(rootCmd, "once"))
	assert.Panics(t, func() { mustGetString(rootCmd, "no-such-flag") })
	assert.Panics(t, func() { mustGetBool(rootCmd, "mode") }, "type mismatch")
}
