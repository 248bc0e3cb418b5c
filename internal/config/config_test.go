package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("base-path", "", "")
	fs.String("date-pattern", "", "")
	fs.Bool("pretty-json", false, "")
	fs.StringP("output", "o", "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".kmadmin", "kmadmin.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(home, ".kmadmin", "kmadmin.log"), cfg.LogFile)
	assert.Equal(t, "YYYY-MM-DD HH:mm:ss", cfg.DatePattern)
	assert.Equal(t, "/kafka", cfg.BasePath)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.PrettyJSON)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadPrecedence(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".kmadmin")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
base_path: /from-file
date_pattern: YYYY/MM/DD
operator: ops
output: yaml
`), 0o600))

	t.Setenv("KMADMIN_BASE_PATH", "/from-env")
	t.Setenv("KMADMIN_PRETTY_JSON", "true")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--output", "json", "--db", "/tmp/x.db"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigFile)
	assert.Equal(t, "/from-env", cfg.BasePath, "env beats file")
	assert.Equal(t, "YYYY/MM/DD", cfg.DatePattern, "file beats default")
	assert.Equal(t, "ops", cfg.Operator)
	assert.Equal(t, "json", cfg.Output, "flag beats file")
	assert.Equal(t, "/tmp/x.db", cfg.DBPath, "--db maps to db_path")
	assert.True(t, cfg.PrettyJSON)
}

func TestUnchangedFlagsDoNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("KMADMIN_OUTPUT", "yaml")

	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"output", "KMADMIN_OUTPUT", "xml"},
		{"log level", "KMADMIN_LOG_LEVEL", "loud"},
		{"timezone", "KMADMIN_TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.val)
			_, err := Load("", nil)
			assert.Error(t, err)
		})
	}
}

func TestGridOptions(t *testing.T) {
	isolate(t)
	t.Setenv("KMADMIN_TIMEZONE", "UTC")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	opts, err := cfg.GridOptions()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, opts.Location)
	assert.Equal(t, "/kafka", opts.BasePath)
	assert.Equal(t, "YYYY-MM-DD HH:mm:ss", opts.DatePattern)
}

func TestSaveMergesSettings(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))

	require.NoError(t, Save(path, Settings{Operator: "alice", BasePath: "/km"}))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Operator)
	assert.Equal(t, "/km", cfg.BasePath)
	assert.Equal(t, "debug", cfg.LogLevel, "existing keys are kept")
	assert.Equal(t, "YYYY-MM-DD HH:mm:ss", cfg.DatePattern, "empty settings are not written")
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.yaml")
	require.NoError(t, Save(path, Settings{Operator: "bob"}))
	assert.FileExists(t, path)
}
