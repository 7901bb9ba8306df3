package util

import (
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// MarshalJSON wraps Sonic for performance
func MarshalJSON(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// UnmarshalJSON wraps Sonic for performance
func UnmarshalJSON(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// NewRequestID returns a random request id.
func NewRequestID() string {
	return uuid.NewString()
}

// TruncateString truncates string and adds replacement text in the middle
func TruncateString(s string, prefixLen, suffixLen int, replacement string) string {
	if len(s) > prefixLen+suffixLen {
		return s[:prefixLen] + replacement + s[len(s)-suffixLen:]
	}
	return s
}

// TruncateForLog shortens s to at most maxRunes runes for log lines.
func TruncateForLog(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}

// ParseEnvList parses comma-separated env var to trimmed slice
func ParseEnvList(envVar string) []string {
	if envVar == "" {
		return nil
	}
	parts := strings.Split(envVar, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetEnvWithDefault gets env var with default value
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetFirstEnv returns the first non-empty value among keys.
func GetFirstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// GetEnvInt parses a positive integer env var, returning defaultValue when
// unset. ok is false when the variable is set but invalid.
func GetEnvInt(key string, defaultValue int) (value int, ok bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, true
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || parsed <= 0 {
		return defaultValue, false
	}
	return parsed, true
}

// GetEnvDuration parses a positive duration env var ("1s", "250ms"),
// returning defaultValue when unset. ok is false when the variable is set but invalid.
func GetEnvDuration(key string, defaultValue time.Duration) (value time.Duration, ok bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, true
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || parsed <= 0 {
		return defaultValue, false
	}
	return parsed, true
}
