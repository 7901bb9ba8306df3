package validate

import (
	"encoding/base64"
	"fmt"
	"strings"

	"imagerelay/internal/core"
)

// ImageValidator checks images returned by upstream before they reach the client.
type ImageValidator struct {
	maxBytes int64
}

// NewImageValidator creates a new image validator
func NewImageValidator() *ImageValidator {
	return &ImageValidator{maxBytes: core.MaxImageSizeBytes}
}

// ValidateImageData validates base64 encoded image data
func (v *ImageValidator) ValidateImageData(mediaType, data string) error {
	if !IsSupportedImageFormat(mediaType) {
		return fmt.Errorf("unsupported image format: %s. Supported formats: %v",
			mediaType, core.SupportedImageFormats)
	}

	if data == "" {
		return fmt.Errorf("image data is empty")
	}

	// Pre-check base64 string length to avoid OOM from decoding huge data
	estimatedSize := int64(len(data)) * 3 / 4
	if estimatedSize > v.maxBytes {
		return fmt.Errorf("image data too large: estimated %d bytes exceeds %d limit", estimatedSize, v.maxBytes)
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("invalid base64 data: %v", err)
	}

	if int64(len(decoded)) > v.maxBytes {
		return fmt.Errorf("image size %d bytes exceeds maximum allowed size %d bytes",
			len(decoded), v.maxBytes)
	}

	return nil
}

// IsSupportedImageFormat reports whether mediaType is an accepted image mime type.
func IsSupportedImageFormat(mediaType string) bool {
	for _, format := range core.SupportedImageFormats {
		if strings.EqualFold(format, mediaType) {
			return true
		}
	}
	return false
}
