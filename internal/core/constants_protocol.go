package core

// Default config constants
const (
	DefaultPort    = "7860"
	DefaultGinMode = "release"
	CORSMaxAge     = "86400"
)

// Content type and header constants
const (
	ContentTypeJSON    = "application/json"
	ContentTypeHTML    = "text/html; charset=utf-8"
	HeaderContentType  = "Content-Type"
	HeaderAccept       = "Accept"
	HeaderRequestID    = "X-Request-ID"
	HeaderGoogAPIKey   = "x-goog-api-key"
	ContextKeyRequest  = "requestID"
	HealthStatusOK     = "ok"
	RequestIDLogFormat = "[%s] "
)
