package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"warn", "warn"},
		{"error", "error"},
		{"info", "info"},
		{"garbage", "info"}, // unknown falls back to info
		{"", "info"},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.in).String(); got != tc.want {
			t.Errorf("parseLevel(%q) = %s, expected %s", tc.in, got, tc.want)
		}
	}
}

func TestInitWithFileConfig_WritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "tool.log")

	if err := InitWithFileConfig("debug", DefaultFileConfig(logPath), false); err != nil {
		t.Fatalf("InitWithFileConfig failed: %v", err)
	}

	Info("hello from test")
	Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file does not contain the message: %q", string(data))
	}
	if !strings.Contains(string(data), "INFO") {
		t.Errorf("log file missing level tag: %q", string(data))
	}
}

func TestInitWithFileConfig_LevelFilters(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "tool.log")

	if err := InitWithFileConfig("error", DefaultFileConfig(logPath), false); err != nil {
		t.Fatalf("InitWithFileConfig failed: %v", err)
	}

	Info("should be filtered")
	Error("should appear")
	Sync()

	data, _ := os.ReadFile(logPath)
	if strings.Contains(string(data), "should be filtered") {
		t.Error("info message leaked through error-level filter")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("error message missing from log")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/var/log/x.log")
	if cfg.Path != "/var/log/x.log" {
		t.Errorf("path = %s", cfg.Path)
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		t.Errorf("rotation limits must be positive: %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("rotated logs should be compressed by default")
	}
}
