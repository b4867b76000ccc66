// Package config holds runtime configuration for procport.
// Defaults may be overridden by an optional YAML file and PROCPORT_* environment
// variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by Load.
const (
	EnvResultsDir     = "PROCPORT_RESULTS_DIR"
	EnvKillTimeout    = "PROCPORT_KILL_TIMEOUT"
	EnvPortInterval   = "PROCPORT_PORT_INTERVAL"
	EnvThreadInterval = "PROCPORT_THREAD_INTERVAL"
	EnvScanRowWidth   = "PROCPORT_SCAN_ROW_WIDTH"
)

// Built-in defaults. The timeouts are deliberately configurable rather than
// protocol constants; these values match the original tool's behavior.
const (
	DefaultKillTimeout    = 5 * time.Second
	DefaultKillGrace      = 3 * time.Second
	DefaultPortInterval   = 5 * time.Second
	DefaultThreadInterval = 2 * time.Second
	DefaultProbeTimeout   = 20 * time.Millisecond
	DefaultScanRowWidth   = 8
	DefaultPageSize       = 20
)

// resultsDirName is the folder created under the user's Documents directory.
const resultsDirName = "ProcPortManager"

// Config carries all tunable settings.
type Config struct {
	// ResultsDir is where saved query results are written.
	ResultsDir string `yaml:"resultsDir"`

	// KillTimeout is how long to wait after a graceful terminate before
	// escalating to kill. KillGrace is the wait after kill.
	KillTimeout time.Duration `yaml:"killTimeout"`
	KillGrace   time.Duration `yaml:"killGrace"`

	// PortInterval and ThreadInterval are the monitor refresh intervals.
	PortInterval   time.Duration `yaml:"portInterval"`
	ThreadInterval time.Duration `yaml:"threadInterval"`

	// ProbeTimeout is the per-port TCP connect timeout during range scans.
	ProbeTimeout time.Duration `yaml:"probeTimeout"`

	// ScanRowWidth is the number of ports per row in the scan grid.
	ScanRowWidth int `yaml:"scanRowWidth"`

	// PageSize is the default page size for the thread monitor table.
	PageSize int `yaml:"pageSize"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ResultsDir:     defaultResultsDir(),
		KillTimeout:    DefaultKillTimeout,
		KillGrace:      DefaultKillGrace,
		PortInterval:   DefaultPortInterval,
		ThreadInterval: DefaultThreadInterval,
		ProbeTimeout:   DefaultProbeTimeout,
		ScanRowWidth:   DefaultScanRowWidth,
		PageSize:       DefaultPageSize,
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (if path is empty, the default location is tried; a missing file is
// not an error), then environment overrides. Invalid override values are
// ignored and the previous value kept.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; run on defaults.
	default:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// DefaultConfigPath returns the default config file location
// (~/.config/procport/config.yaml, or the platform equivalent).
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "procport", "config.yaml")
}

// EnsureResultsDir creates the results directory if needed and returns it.
func (c Config) EnsureResultsDir() (string, error) {
	if err := os.MkdirAll(c.ResultsDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	return c.ResultsDir, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvResultsDir); v != "" {
		c.ResultsDir = v
	}
	if d, ok := envDuration(EnvKillTimeout); ok {
		c.KillTimeout = d
	}
	if d, ok := envDuration(EnvPortInterval); ok {
		c.PortInterval = d
	}
	if d, ok := envDuration(EnvThreadInterval); ok {
		c.ThreadInterval = d
	}
	if v := os.Getenv(EnvScanRowWidth); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ScanRowWidth = n
		}
	}
}

// normalize clamps nonsensical values back to defaults so a bad config file
// cannot produce a busy loop or an unwritable layout.
func (c *Config) normalize() {
	if c.ResultsDir == "" {
		c.ResultsDir = defaultResultsDir()
	}
	if c.KillTimeout <= 0 {
		c.KillTimeout = DefaultKillTimeout
	}
	if c.KillGrace <= 0 {
		c.KillGrace = DefaultKillGrace
	}
	if c.PortInterval <= 0 {
		c.PortInterval = DefaultPortInterval
	}
	if c.ThreadInterval <= 0 {
		c.ThreadInterval = DefaultThreadInterval
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.ScanRowWidth <= 0 {
		c.ScanRowWidth = DefaultScanRowWidth
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
}

// envDuration parses a duration env var, accepting both Go duration syntax
// ("5s") and a bare number of seconds ("5").
func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d, true
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second)), true
	}
	return 0, false
}

func defaultResultsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return resultsDirName
	}
	return filepath.Join(home, "Documents", resultsDirName)
}
