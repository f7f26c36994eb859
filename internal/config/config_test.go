package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zmudump.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Zero(t, cfg.PID)
	assert.Empty(t, cfg.Output)
	assert.False(t, cfg.NoColor)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfigFile(t, "pid: 4242\noutput: /tmp/dump.zmu\nverbosity: 2\nno_color: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4242, cfg.PID)
	assert.Equal(t, "/tmp/dump.zmu", cfg.Output)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.True(t, cfg.NoColor)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "pid: 4242\noutput: from_file.zmu\n")
	t.Setenv("ZMUDUMP_OUTPUT", "from_env.zmu")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4242, cfg.PID, "file value survives when env is unset")
	assert.Equal(t, "from_env.zmu", cfg.Output, "env wins over file")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "pid: [not a number\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())

	cfg.PID = 1234
	require.NoError(t, cfg.Validate())
}
