package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/notoli/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTOLI_API_BASE_URL", "")
	t.Setenv("NOTOLI_APP_BASE_PATH", "")
	t.Setenv("NOTOLI_SESSION_STORE", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.GetAPIBaseURL())
	require.Equal(t, "", cfg.GetAppBasePath())
	require.Equal(t, "notoli", cfg.GetAppName())
	require.Equal(t, config.SessionStoreFile, cfg.GetSessionStore())
	require.Equal(t, ":8000", cfg.GetDevBackendAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NOTOLI_API_BASE_URL", "https://api.example.com/")
	t.Setenv("NOTOLI_APP_BASE_PATH", "notoli/")
	t.Setenv("NOTOLI_SESSION_STORE", "MEMORY")
	t.Setenv("NOTOLI_ENV", "prod")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.GetAPIBaseURL())
	require.Equal(t, "/notoli", cfg.GetAppBasePath())
	require.Equal(t, config.SessionStoreMemory, cfg.GetSessionStore())
	require.Equal(t, "PROD", cfg.GetEnv())
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("NOTOLI_API_BASE_URL", "")
	t.Setenv("NOTOLI_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "notoli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: http://files.example:9000\nlog_level: DEBUG\n"), 0o600))

	cfg, err := config.Load(config.WithConfigFile(path))
	require.NoError(t, err)
	require.Equal(t, "http://files.example:9000", cfg.GetAPIBaseURL())
	require.Equal(t, "debug", cfg.GetLogLevel())

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := config.Load(config.WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml")))
		require.NoError(t, err)
		require.Equal(t, "http://localhost:8000", cfg.GetAPIBaseURL())
	})
}

func TestLoad_FlagsWin(t *testing.T) {
	t.Setenv("NOTOLI_API_BASE_URL", "http://env.example")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-base-url", "", "")
	require.NoError(t, flags.Parse([]string{"--api-base-url", "http://flag.example"}))

	cfg, err := config.Load(config.WithFlags(flags))
	require.NoError(t, err)
	require.Equal(t, "http://flag.example", cfg.GetAPIBaseURL())
}
