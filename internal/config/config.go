package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/neurogrowth/internal/constants"
)

// File is the on-disk config.yaml
type File struct {
	APIURL     string  `yaml:"api_url,omitempty"`
	Timeout    string  `yaml:"timeout,omitempty"`
	UseKeyring bool    `yaml:"use_keyring,omitempty"`
	Debug      bool    `yaml:"debug,omitempty"`
	LogsLimit  int     `yaml:"logs_limit,omitempty"`
	Log        LogFile `yaml:"log,omitempty"`
}

// LogFile is the log section of config.yaml
type LogFile struct {
	Level      string `yaml:"level,omitempty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// Overrides are the values given on the command line. Zero values mean unset.
type Overrides struct {
	State      string
	APIURL     string
	Timeout    time.Duration
	UseKeyring bool
	Debug      bool
}

// Config is the resolved runtime configuration
type Config struct {
	// State is the local state store: a sqlite path, a .json path or a postgres connection string
	State      string
	Dir        string
	APIURL     string
	Timeout    time.Duration
	UseKeyring bool
	Debug      bool
	LogsLimit  int
	Log        Logging
}

// Logging controls the rotating log file
type Logging struct {
	// Level is one of debug, info, warn or error. --debug forces debug.
	Level string
	// File defaults to logs/neurogrowth.log under Dir
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		State:     constants.DefaultConfigPath,
		APIURL:    constants.DefaultAPIURL,
		Timeout:   constants.DefaultTimeout,
		LogsLimit: constants.DefaultLogsLimit,
		Log: Logging{
			Level:      constants.DefaultLogLevel,
			MaxSizeMB:  constants.DefaultLogMaxSizeMB,
			MaxBackups: constants.DefaultLogMaxBackups,
			MaxAgeDays: constants.DefaultLogMaxAgeDays,
		},
	}
}

// DefaultLogFile returns the log file location for a state directory
func DefaultLogFile(dir string) string {
	return filepath.Join(dir, "logs", constants.AppName+".log")
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// IsConnString reports whether state names a postgres database
func IsConnString(state string) bool {
	return strings.HasPrefix(state, "postgres://") ||
		strings.HasPrefix(state, "postgresql://") ||
		strings.Contains(state, "host=")
}

// StateDir returns the directory holding config.yaml, logs and the lockfile
func StateDir(state string) (string, error) {
	if state == "" || IsConnString(state) {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user config dir: %w", err)
		}
		return filepath.Join(configDir, constants.AppName), nil
	}
	path, err := ExpandPath(state)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// LoadFile reads config.yaml. A missing file yields an empty File.
func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return f, nil
}

// SaveFile writes config.yaml, creating its directory if needed
func SaveFile(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// loadDotEnv reads .env from the working directory and the state directory.
// Variables already set in the environment win.
func loadDotEnv(dir string) error {
	for _, path := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Resolve merges defaults, config.yaml, the environment and command line
// overrides, in increasing order of precedence.
func Resolve(o Overrides) (Config, error) {
	cfg := Default()

	dir, err := StateDir(firstNonEmpty(o.State, cfg.State))
	if err != nil {
		return cfg, err
	}
	if err := loadDotEnv(dir); err != nil {
		return cfg, err
	}

	// The connection string may come from the environment, so the state
	// location is settled before reading config.yaml.
	cfg.State = firstNonEmpty(o.State, os.Getenv(constants.EnvDBConnection), cfg.State)
	if cfg.Dir, err = StateDir(cfg.State); err != nil {
		return cfg, err
	}

	f, err := LoadFile(filepath.Join(cfg.Dir, constants.ConfigFileName))
	if err != nil {
		return cfg, err
	}
	if err := cfg.apply(f); err != nil {
		return cfg, err
	}

	cfg.APIURL = firstNonEmpty(o.APIURL, os.Getenv(constants.EnvAPIURL), cfg.APIURL)
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	cfg.UseKeyring = cfg.UseKeyring || o.UseKeyring
	cfg.Debug = cfg.Debug || o.Debug

	if !IsConnString(cfg.State) {
		if cfg.State, err = ExpandPath(cfg.State); err != nil {
			return cfg, err
		}
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogFile(cfg.Dir)
	} else if cfg.Log.File, err = ExpandPath(cfg.Log.File); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) apply(f File) error {
	if f.APIURL != "" {
		c.APIURL = f.APIURL
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in config file: %w", f.Timeout, err)
		}
		c.Timeout = d
	}
	if f.LogsLimit > 0 {
		c.LogsLimit = f.LogsLimit
	}
	c.UseKeyring = c.UseKeyring || f.UseKeyring
	c.Debug = c.Debug || f.Debug
	return c.Log.apply(f.Log)
}

func (l *Logging) apply(f LogFile) error {
	if f.Level != "" {
		level := strings.ToLower(f.Level)
		if !slices.Contains(logLevels, level) {
			return fmt.Errorf("invalid log level %q in config file, want one of %s", f.Level, strings.Join(logLevels, ", "))
		}
		l.Level = level
	}
	if f.File != "" {
		l.File = f.File
	}
	if f.MaxSizeMB > 0 {
		l.MaxSizeMB = f.MaxSizeMB
	}
	if f.MaxBackups > 0 {
		l.MaxBackups = f.MaxBackups
	}
	if f.MaxAgeDays > 0 {
		l.MaxAgeDays = f.MaxAgeDays
	}
	return nil
}

// ToFile returns the persistable subset of the configuration
func (c Config) ToFile() File {
	f := File{
		UseKeyring: c.UseKeyring,
		Debug:      c.Debug,
	}
	if c.APIURL != constants.DefaultAPIURL {
		f.APIURL = c.APIURL
	}
	if c.Timeout != constants.DefaultTimeout {
		f.Timeout = c.Timeout.String()
	}
	if c.LogsLimit != constants.DefaultLogsLimit {
		f.LogsLimit = c.LogsLimit
	}
	if c.Log.Level != constants.DefaultLogLevel {
		f.Log.Level = c.Log.Level
	}
	if c.Log.File != "" && c.Log.File != DefaultLogFile(c.Dir) {
		f.Log.File = c.Log.File
	}
	if c.Log.MaxSizeMB != constants.DefaultLogMaxSizeMB {
		f.Log.MaxSizeMB = c.Log.MaxSizeMB
	}
	if c.Log.MaxBackups != constants.DefaultLogMaxBackups {
		f.Log.MaxBackups = c.Log.MaxBackups
	}
	if c.Log.MaxAgeDays != constants.DefaultLogMaxAgeDays {
		f.Log.MaxAgeDays = c.Log.MaxAgeDays
	}
	return f
}

// Path returns the location of config.yaml
func (c Config) Path() string {
	return filepath.Join(c.Dir, constants.ConfigFileName)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
