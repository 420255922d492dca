package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	flags := newRootCmd().Flags()
	require.NoError(t, flags.Set("env-file", ""))
	cfg, err := LoadConfig(flags)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, "./non-ansi-sqls.json", cfg.OutputFile)
	require.Equal(t, "./error-sqls.json", cfg.ErrorFile)
	require.Equal(t, "./dremio-non-ansi-join-finder.log", cfg.LogFile)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "joinfinder.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
output-file = "file-out.json"
error-file = "file-err.json"
log-level = "debug"

[[normalize.rule]]
from = "NVL("
to = "IFNULL("
`), 0o644))
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("JOINFINDER_DSN=\"root@tcp(127.0.0.1:3306)/catalog\"\n"), 0o644))
	t.Setenv("JOINFINDER_ERROR_FILE", "env-err.json")
	t.Setenv("JOINFINDER_FORCE", "true")
	// godotenv only sets unset variables; Setenv registers the cleanup.
	t.Setenv("JOINFINDER_DSN", "")
	require.NoError(t, os.Unsetenv("JOINFINDER_DSN"))

	flags := newRootCmd().Flags()
	require.NoError(t, flags.Set("config", configFile))
	require.NoError(t, flags.Set("env-file", envFile))
	require.NoError(t, flags.Set("log-level", "warn"))

	cfg, err := LoadConfig(flags)
	require.NoError(t, err)
	require.Equal(t, "file-out.json", cfg.OutputFile)
	require.Equal(t, "env-err.json", cfg.ErrorFile)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "root@tcp(127.0.0.1:3306)/catalog", cfg.DSN)
	require.True(t, cfg.Force)
	require.Equal(t, []Rule{{From: "NVL(", To: "IFNULL("}}, cfg.Normalize.Rules)
	require.Equal(t, DefaultSQLMode, cfg.SQLMode)
}

func TestLoadConfigErrors(t *testing.T) {
	flags := newRootCmd().Flags()
	require.NoError(t, flags.Set("env-file", ""))
	require.NoError(t, flags.Set("config", filepath.Join(t.TempDir(), "missing.toml")))
	_, err := LoadConfig(flags)
	require.Error(t, err)

	flags = newRootCmd().Flags()
	require.NoError(t, flags.Set("env-file", ""))
	t.Setenv("JOINFINDER_FORCE", "maybe")
	_, err = LoadConfig(flags)
	require.Error(t, err)
}
