package core

import "time"

// HTTP client config constants
const (
	HTTPMaxIdleConns          = 100
	HTTPMaxIdleConnsPerHost   = 20
	HTTPMaxConnsPerHost       = 50
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPTLSHandshakeTimeout   = 10 * time.Second
	HTTPResponseHeaderTimeout = 90 * time.Second
	HTTPExpectContinueTimeout = 1 * time.Second
	HTTPRequestTimeout        = 2 * time.Minute
)

// Upstream retry constants
const (
	MaxUpstreamAttempts = 3
	UpstreamBackoffBase = 1 * time.Second
)

// Stats and monitoring constants
const (
	HistoryBufferSize    = 1000
	HistoryBatchSize     = 100
	HistoryFlushInterval = 100 * time.Millisecond
)

// Prompt and image limits
const (
	MaxPromptLength   = 10000
	MaxImageSizeBytes = 20 * 1024 * 1024
	ImageFormatPNG    = "image/png"
	ImageFormatJPEG   = "image/jpeg"
	ImageFormatGIF    = "image/gif"
	ImageFormatWebP   = "image/webp"
)

// SupportedImageFormats supported image format list
var SupportedImageFormats = []string{ImageFormatPNG, ImageFormatJPEG, ImageFormatGIF, ImageFormatWebP}

// Response body size limits
const (
	MaxResponseBodySize = 64 * 1024 * 1024
	MaxRequestBodySize  = 1 << 20
)

// Logging config constants
const (
	MaxDebugFilePathLength = 260
	MaxLoggedPromptLength  = 80
	MaxLoggedBodyLength    = 512
)

// File permission constants
const (
	FilePermissionReadWrite = 0644
)

// Time format constants
const (
	TimeFormatDateTime = "2006-01-02 15:04:05"
)
