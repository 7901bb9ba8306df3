package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAppLoggerWithConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAppLoggerWithConfig(&buf, true)
	if logger == nil {
		t.Fatal("logger should not be nil")
	}
	if !logger.debug {
		t.Error("debug mode should be true")
	}
	if logger.fileHandle != nil {
		t.Error("external writer should not hold a file handle")
	}
}

func TestAppLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		message   string
		expectLog bool
	}{
		{"written in debug mode", true, "debug message", true},
		{"dropped outside debug mode", false, "should not appear", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewAppLoggerWithConfig(&buf, tt.debugMode)
			logger.Debug(tt.message)
			output := buf.String()
			hasLog := strings.Contains(output, tt.message)
			if hasLog != tt.expectLog {
				t.Errorf("expected log output=%v, got %v", tt.expectLog, hasLog)
			}
			if tt.expectLog && !strings.Contains(output, "[DEBUG]") {
				t.Error("debug line should carry the [DEBUG] prefix")
			}
		})
	}
}

func TestAppLogger_Levels(t *testing.T) {
	tests := []struct {
		name   string
		log    func(l *AppLogger)
		prefix string
		want   string
	}{
		{"info", func(l *AppLogger) { l.Info("model: %s", "imagen-4.0-generate-001") }, "[INFO]", "model: imagen-4.0-generate-001"},
		{"warn", func(l *AppLogger) { l.Warn("attempt %d failed", 2) }, "[WARN]", "attempt 2 failed"},
		{"error", func(l *AppLogger) { l.Error("upstream: %v", "503") }, "[ERROR]", "upstream: 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewAppLoggerWithConfig(&buf, false)
			tt.log(logger)
			output := buf.String()
			if !strings.Contains(output, tt.prefix) {
				t.Errorf("expected prefix %s in %q", tt.prefix, output)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("expected formatted message %q in %q", tt.want, output)
			}
		})
	}
}

func TestAppLogger_NilSafety(t *testing.T) {
	var logger *AppLogger
	logger.Debug("no panic")
	logger.Info("no panic")
	logger.Warn("no panic")
	logger.Error("no panic")
	if err := logger.Close(); err != nil {
		t.Errorf("closing a nil logger should not fail: %v", err)
	}
}

func TestAppLogger_MultipleWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAppLoggerWithConfig(&buf, true)
	logger.Debug("first")
	logger.Info("second")
	logger.Warn("third")
	logger.Error("fourth")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 log lines, got %d", len(lines))
	}
}

func TestContainsPathTraversal(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"plain path", "/var/log/app.log", false},
		{"parent in the middle", "/var/../etc/passwd", true},
		{"leading parent", "../secret.txt", true},
		{"current dir", "./local.log", false},
		{"windows parent", "..\\config.ini", true},
		{"empty", "", false},
		{"dots in file name", "/var/log/app.2024.log", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsPathTraversal(tt.path); got != tt.expected {
				t.Errorf("containsPathTraversal(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestIsDebug(t *testing.T) {
	tests := []struct {
		name     string
		ginMode  string
		logLevel string
		expected bool
	}{
		{"gin debug", "debug", "", true},
		{"release", "release", "", false},
		{"test", "test", "", false},
		{"log level debug", "release", "DEBUG", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GIN_MODE", tt.ginMode)
			t.Setenv("LOG_LEVEL", tt.logLevel)
			if got := IsDebug(); got != tt.expected {
				t.Errorf("IsDebug() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCreateLogger_DebugFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	t.Setenv("DEBUG_FILE", path)
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "")

	logger := CreateLogger()
	logger.Info("written to file")
	appLog, ok := logger.(*AppLogger)
	if !ok {
		t.Fatalf("expected *AppLogger, got %T", logger)
	}
	if err := appLog.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file should contain the message, got %q", string(data))
	}
}
