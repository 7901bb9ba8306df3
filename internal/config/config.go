package config

import (
	"os"
	"strings"
	"time"

	"imagerelay/internal/core"
	"imagerelay/internal/util"
)

// ServerConfig server configuration
type ServerConfig struct {
	Port               string
	GinMode            string
	APIKey             string
	UpstreamBaseURL    string
	ModelsConfigPath   string
	CORSAllowOrigins   []string
	Retry              RetrySettings
	HTTPClientSettings HTTPClientSettings
	Logger             core.Logger
}

// RetrySettings bounds the upstream retry loop.
type RetrySettings struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// DefaultRetrySettings default retry settings
func DefaultRetrySettings() RetrySettings {
	return RetrySettings{
		MaxAttempts: core.MaxUpstreamAttempts,
		BackoffBase: core.UpstreamBackoffBase,
	}
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		MaxConnsPerHost:     core.HTTPMaxConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.HTTPRequestTimeout,
	}
}

// HasAPIKey reports whether an upstream credential is configured.
func (c ServerConfig) HasAPIKey() bool {
	return c.APIKey != ""
}

// LoadServerConfigFromEnv loads server config from environment variables.
// The credential is read here once; a missing key is not fatal, generation
// requests fail instead.
func LoadServerConfigFromEnv(logger core.Logger) (ServerConfig, error) {
	apiKey := util.GetFirstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; generation requests will fail until it is configured")
	} else {
		logger.Info("Upstream API key loaded (%s)", util.TruncateString(apiKey, 0, 4, "key ..."))
	}

	retry := DefaultRetrySettings()
	if attempts, ok := util.GetEnvInt("UPSTREAM_MAX_ATTEMPTS", retry.MaxAttempts); ok {
		retry.MaxAttempts = attempts
	} else {
		logger.Warn("Invalid UPSTREAM_MAX_ATTEMPTS value, using default %d", retry.MaxAttempts)
	}
	if base, ok := util.GetEnvDuration("UPSTREAM_BACKOFF_BASE", retry.BackoffBase); ok {
		retry.BackoffBase = base
	} else {
		logger.Warn("Invalid UPSTREAM_BACKOFF_BASE value, using default %s", retry.BackoffBase)
	}

	httpSettings := DefaultHTTPClientSettings()
	if timeout, ok := util.GetEnvDuration("UPSTREAM_TIMEOUT", httpSettings.RequestTimeout); ok {
		httpSettings.RequestTimeout = timeout
	} else {
		logger.Warn("Invalid UPSTREAM_TIMEOUT value, using default %s", httpSettings.RequestTimeout)
	}

	config := ServerConfig{
		Port:               util.GetEnvWithDefault("PORT", core.DefaultPort),
		GinMode:            util.GetEnvWithDefault("GIN_MODE", core.DefaultGinMode),
		APIKey:             apiKey,
		UpstreamBaseURL:    strings.TrimRight(util.GetEnvWithDefault("GEMINI_BASE_URL", core.DefaultGeminiBaseURL), "/"),
		ModelsConfigPath:   strings.TrimSpace(os.Getenv("MODELS_CONFIG_PATH")),
		CORSAllowOrigins:   util.ParseEnvList(util.GetEnvWithDefault("CORS_ALLOW_ORIGIN", "*")),
		Retry:              retry,
		HTTPClientSettings: httpSettings,
	}

	return config, nil
}
