package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparkmem.yaml")
	err := os.WriteFile(path, []byte("log_level: debug\nwait_timeout: 250ms\nscenario: upload.yaml\n"), 0o600)
	require.NoError(t, err)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 250*time.Millisecond, cfg.WaitTimeout)
	require.Equal(t, "upload.yaml", cfg.Scenario)

	t.Setenv("SPARKMEM_WAIT_TIMEOUT", "3s")
	cfg, err = Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.WaitTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := map[string]string{
		"LogLevel":    "log_level: loud\n",
		"WaitTimeout": "wait_timeout: 0s\n",
	}

	for name, contents := range testCases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sparkmem.yaml")
			require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

			_, err := Load(viper.New(), path)
			require.Error(t, err)
		})
	}

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
