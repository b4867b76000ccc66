package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultKillTimeout, cfg.KillTimeout)
	assert.Equal(t, DefaultKillGrace, cfg.KillGrace)
	assert.Equal(t, DefaultPortInterval, cfg.PortInterval)
	assert.Equal(t, DefaultThreadInterval, cfg.ThreadInterval)
	assert.Equal(t, DefaultProbeTimeout, cfg.ProbeTimeout)
	assert.Equal(t, DefaultScanRowWidth, cfg.ScanRowWidth)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.NotEmpty(t, cfg.ResultsDir)
	assert.Contains(t, cfg.ResultsDir, "ProcPortManager")
}

func TestLoadExplicitMissingFile(t *testing.T) {
	// An explicitly named path that does not exist is an error; only the
	// implicit default location may be absent.
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadNoPathNoFile(t *testing.T) {
	// Default location almost certainly absent in the test environment; the
	// important part is that the absence is not an error.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultKillTimeout, cfg.KillTimeout)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("killTimeout: 10s\nscanRowWidth: 4\nresultsDir: /tmp/results\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.KillTimeout)
	assert.Equal(t, 4, cfg.ScanRowWidth)
	assert.Equal(t, "/tmp/results", cfg.ResultsDir)
	// Untouched keys keep defaults.
	assert.Equal(t, DefaultPortInterval, cfg.PortInterval)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("killTimeout: [not a duration"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvResultsDir, "/tmp/override")
	t.Setenv(EnvKillTimeout, "7s")
	t.Setenv(EnvPortInterval, "3")
	t.Setenv(EnvScanRowWidth, "16")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", cfg.ResultsDir)
	assert.Equal(t, 7*time.Second, cfg.KillTimeout)
	assert.Equal(t, 3*time.Second, cfg.PortInterval)
	assert.Equal(t, 16, cfg.ScanRowWidth)
}

func TestEnvInvalidValuesIgnored(t *testing.T) {
	t.Setenv(EnvKillTimeout, "banana")
	t.Setenv(EnvScanRowWidth, "-2")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultKillTimeout, cfg.KillTimeout)
	assert.Equal(t, DefaultScanRowWidth, cfg.ScanRowWidth)
}

func TestNormalizeClampsBadValues(t *testing.T) {
	cfg := Config{KillTimeout: -1, PageSize: 0, ScanRowWidth: -5}
	cfg.normalize()
	assert.Equal(t, DefaultKillTimeout, cfg.KillTimeout)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultScanRowWidth, cfg.ScanRowWidth)
	assert.NotEmpty(t, cfg.ResultsDir)
}

func TestEnsureResultsDir(t *testing.T) {
	cfg := Default()
	cfg.ResultsDir = filepath.Join(t.TempDir(), "nested", "results")
	dir, err := cfg.EnsureResultsDir()
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"5s", 5 * time.Second, true},
		{"250ms", 250 * time.Millisecond, true},
		{"5", 5 * time.Second, true},
		{"0.5", 500 * time.Millisecond, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Setenv("PROCPORT_TEST_DUR", tt.value)
		got, ok := envDuration("PROCPORT_TEST_DUR")
		assert.Equal(t, tt.ok, ok, "value %q", tt.value)
		if tt.ok {
			assert.Equal(t, tt.want, got, "value %q", tt.value)
		}
	}
}
