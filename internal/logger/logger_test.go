package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/neurogrowth/internal/config"
)

func TestInit(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config", "logs", "neurogrowth.log")

	if err := Init(Config{File: file}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(file)); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", filepath.Dir(file))
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("default level = %v, want warn", Logger.GetLevel())
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dir = dir
	cfg.Log.Level = "info"

	lc := FromConfig(cfg)
	if lc.File != filepath.Join(dir, "logs", "neurogrowth.log") {
		t.Errorf("log file = %q", lc.File)
	}
	if lc.MaxBackups != cfg.Log.MaxBackups || lc.MaxAgeDays != cfg.Log.MaxAgeDays {
		t.Errorf("rotation settings not carried over: %+v", lc)
	}

	if err := Init(lc); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", Logger.GetLevel())
	}

	Info("session restored", "student", 3)
	data, err := os.ReadFile(lc.File)
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), "session restored") {
		t.Errorf("log file missing entry:\n%s", data)
	}
}

func TestInitDebugOverridesLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ng.log")

	if err := Init(Config{File: file, Level: "error", Debug: true, Quiet: true}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}

	Debug("written to file only")
	if _, err := os.Stat(file); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if err := Init(Config{File: filepath.Join(t.TempDir(), "ng.log"), Level: "loud"}); err == nil {
		t.Error("expected invalid level error")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
