package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/neurogrowth/internal/config"
	"github.com/julianstephens/neurogrowth/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Config holds logger configuration
type Config struct {
	// Level is parsed with log.ParseLevel. Debug overrides it.
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
	// Quiet suppresses the stderr mirror even in debug mode (the TUI owns the terminal)
	Quiet bool
}

// FromConfig derives the logger settings from the resolved configuration
func FromConfig(c config.Config) Config {
	file := c.Log.File
	if file == "" {
		file = config.DefaultLogFile(c.Dir)
	}
	return Config{
		Level:      c.Log.Level,
		File:       file,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Debug:      c.Debug,
	}
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	level := log.WarnLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if cfg.Debug {
		level = log.DebugLevel
	}

	if cfg.File == "" {
		return fmt.Errorf("log file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    orDefault(cfg.MaxSizeMB, constants.DefaultLogMaxSizeMB),
		MaxBackups: orDefault(cfg.MaxBackups, constants.DefaultLogMaxBackups),
		MaxAge:     orDefault(cfg.MaxAgeDays, constants.DefaultLogMaxAgeDays),
		Compress:   true,
	}

	var writer io.Writer = fileWriter
	if cfg.Debug && !cfg.Quiet {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
