// Package config resolves cenov2 settings from defaults, an optional .env
// file and CENOV2_* environment variables. Command-line flags are layered
// on top by cmd/cenov2.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cenov2/internal/power"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvSysfsRoot  = "CENOV2_SYSFS_ROOT"
	EnvMethod     = "CENOV2_METHOD"
	EnvSudo       = "CENOV2_SUDO"
	EnvRefresh    = "CENOV2_REFRESH"
	EnvGetTimeout = "CENOV2_GET_TIMEOUT"
	EnvSetTimeout = "CENOV2_SET_TIMEOUT"
	EnvLogFile    = "CENOV2_LOG_FILE"
	EnvLogLevel   = "CENOV2_LOG_LEVEL"
)

// DefaultEnvFile is read when present; a missing file is not an error.
const DefaultEnvFile = ".env"

// Config holds resolved settings.
type Config struct {
	SysfsRoot  string
	Method     string // auto, ppd, cpu, sys or none
	Sudo       bool
	Refresh    time.Duration
	GetTimeout time.Duration
	SetTimeout time.Duration
	LogFile    string
	LogLevel   string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SysfsRoot:  power.DefaultSysfsRoot,
		Method:     "auto",
		Sudo:       true,
		Refresh:    6 * time.Second,
		GetTimeout: power.DefaultGetTimeout,
		SetTimeout: power.DefaultSetTimeout,
		LogFile:    DefaultLogFile(),
		LogLevel:   "info",
	}
}

// DefaultLogFile returns $XDG_STATE_HOME/cenov2/cenov2.log, falling back
// to ~/.local/state and finally the temp dir.
func DefaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "state")
		} else {
			dir = os.TempDir()
		}
	}
	return filepath.Join(dir, "cenov2", "cenov2.log")
}

// Load returns Default overlaid with envFile (if any) and the process
// environment. Non-empty process variables win over the file. An empty envFile means
// DefaultEnvFile, which may be absent.
func Load(envFile string) (Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	fileVars := map[string]string{}
	vars, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		fileVars = vars
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read env file %q: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
	cfg := Default()
	if err := cfg.apply(lookup); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) apply(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSysfsRoot); ok && v != "" {
		c.SysfsRoot = v
	}
	if v, ok := lookup(EnvMethod); ok && v != "" {
		c.Method = v
	}
	if v, ok := lookup(EnvSudo); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSudo, err)
		}
		c.Sudo = b
	}
	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{EnvRefresh, &c.Refresh},
		{EnvGetTimeout, &c.GetTimeout},
		{EnvSetTimeout, &c.SetTimeout},
	} {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		dur, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = dur
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.LogFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, _, err := power.ParseMethod(c.Method); err != nil {
		return err
	}
	if c.Refresh < time.Second {
		return fmt.Errorf("refresh interval %s is below 1s", c.Refresh)
	}
	if c.GetTimeout <= 0 || c.SetTimeout <= 0 {
		return errors.New("command timeouts must be positive")
	}
	if c.SysfsRoot == "" {
		return errors.New("sysfs root must not be empty")
	}
	return nil
}
