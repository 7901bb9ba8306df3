package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"imagerelay/internal/core"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger is the application logger implementation backed by zap.
type AppLogger struct {
	sugar      *zap.SugaredLogger
	debug      bool
	fileHandle *os.File
	mu         sync.Mutex
}

func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

func newCore(output io.Writer, debugMode bool) zapcore.Core {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(core.TimeFormatDateTime)
	encoderCfg.EncodeLevel = bracketLevelEncoder
	encoderCfg.ConsoleSeparator = " "

	level := zapcore.InfoLevel
	if debugMode {
		level = zapcore.DebugLevel
	}

	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(output), level)
}

// NewAppLoggerWithConfig creates a logger instance with configuration.
func NewAppLoggerWithConfig(output io.Writer, debugMode bool) *AppLogger {
	return &AppLogger{
		sugar: zap.New(newCore(output, debugMode)).Sugar(),
		debug: debugMode,
	}
}

// Debug logs a message at DEBUG level.
func (l *AppLogger) Debug(format string, args ...any) {
	if l != nil && l.debug {
		l.sugar.Debugf(format, args...)
	}
}

// Info logs a message at INFO level.
func (l *AppLogger) Info(format string, args ...any) {
	if l != nil {
		l.sugar.Infof(format, args...)
	}
}

// Warn logs a message at WARN level.
func (l *AppLogger) Warn(format string, args ...any) {
	if l != nil {
		l.sugar.Warnf(format, args...)
	}
}

// Error logs a message at ERROR level.
func (l *AppLogger) Error(format string, args ...any) {
	if l != nil {
		l.sugar.Errorf(format, args...)
	}
}

// Fatal logs a message at FATAL level and terminates the process.
func (l *AppLogger) Fatal(format string, args ...any) {
	if l != nil {
		l.sugar.Fatalf(format, args...)
		return
	}
	zap.NewExample().Sugar().Fatalf(format, args...)
}

// Sync flushes buffered log entries.
func (l *AppLogger) Sync() error {
	if l == nil {
		return nil
	}
	return l.sugar.Sync()
}

// Close flushes and closes the log file handle, if any.
func (l *AppLogger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.sugar.Sync()
	if l.fileHandle != nil {
		err := l.fileHandle.Close()
		l.fileHandle = nil
		return err
	}
	return nil
}

// containsPathTraversal checks if path climbs out of its directory.
func containsPathTraversal(path string) bool {
	for _, pattern := range []string{"../", "..\\", "/..", "\\.."} {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return path == ".."
}

// createDebugFileOutput opens DEBUG_FILE for append, falling back to stdout.
// The returned message is empty unless the fallback was taken.
func createDebugFileOutput() (io.Writer, *os.File, string) {
	debugFile := os.Getenv("DEBUG_FILE")
	if debugFile == "" {
		return os.Stdout, nil, ""
	}

	if len(debugFile) > core.MaxDebugFilePathLength {
		return os.Stdout, nil, "DEBUG_FILE path too long, falling back to stdout"
	}

	if containsPathTraversal(debugFile) {
		return os.Stdout, nil, "DEBUG_FILE contains path traversal characters, falling back to stdout"
	}

	//nolint:gosec // G304: debugFile from env var, validated by containsPathTraversal
	file, err := os.OpenFile(debugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, core.FilePermissionReadWrite)
	if err != nil {
		return os.Stdout, nil, "failed to open DEBUG_FILE '" + debugFile + "': " + err.Error() + ", falling back to stdout"
	}

	return file, file, ""
}

// IsDebug returns whether the app is running in debug mode.
func IsDebug() bool {
	return os.Getenv("GIN_MODE") == "debug" || strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug")
}

// CreateLogger creates a logger instance (for dependency injection).
func CreateLogger() core.Logger {
	debugMode := IsDebug()
	output, fileHandle, fallbackMsg := createDebugFileOutput()

	logger := &AppLogger{
		sugar:      zap.New(newCore(output, debugMode)).Sugar(),
		debug:      debugMode,
		fileHandle: fileHandle,
	}

	if fallbackMsg != "" {
		logger.Warn("%s", fallbackMsg)
	}

	return logger
}
