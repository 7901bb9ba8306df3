package core

import "time"

// Logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

// MetricsCollector interface
type MetricsCollector interface {
	RecordUpstreamAttempt(model, outcome string, duration time.Duration)
	RecordRetry(model string, delay time.Duration)
	RecordFallback(from, to string)
	RecordGeneration(model, outcome string, duration time.Duration)
}

// NopLogger empty logger implementation
type NopLogger struct{}

func (*NopLogger) Debug(format string, args ...any) {}
func (*NopLogger) Info(format string, args ...any)  {}
func (*NopLogger) Warn(format string, args ...any)  {}
func (*NopLogger) Error(format string, args ...any) {}
func (*NopLogger) Fatal(format string, args ...any) {}

// NopMetrics empty metrics collector implementation
type NopMetrics struct{}

func (*NopMetrics) RecordUpstreamAttempt(model, outcome string, duration time.Duration) {}
func (*NopMetrics) RecordRetry(model string, delay time.Duration)                      {}
func (*NopMetrics) RecordFallback(from, to string)                                     {}
func (*NopMetrics) RecordGeneration(model, outcome string, duration time.Duration)     {}
