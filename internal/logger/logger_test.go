package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("materialization skipped habit", "habit", "h1")
	Error("storage failed", "error", "boom")

	data, err := os.ReadFile(filepath.Join(logDir, "habitual.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "materialization skipped habit") {
		t.Errorf("expected warning in log file, got %q", string(data))
	}
}

func TestInitLevelOverride(t *testing.T) {
	configDir := t.TempDir()

	if err := Init(Config{ConfigDir: configDir, Level: "error"}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	Warn("should be filtered")
	Error("should be written")

	data, err := os.ReadFile(filepath.Join(configDir, "logs", "habitual.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "should be filtered") {
		t.Error("warn message was written at error level")
	}
	if !strings.Contains(string(data), "should be written") {
		t.Error("error message was not written")
	}

	if err := Init(Config{ConfigDir: configDir, Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	For("scheduler").Warn("discarded")
}
