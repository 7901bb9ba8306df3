package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"imagerelay/internal/core"
)

// NormalizePrompt trims prompt and rejects empty or oversized input.
func NormalizePrompt(prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", core.ErrInvalidInput("prompt is required and must be a non-empty string")
	}
	if n := utf8.RuneCountInString(trimmed); n > core.MaxPromptLength {
		return "", core.ErrInvalidInput(fmt.Sprintf("prompt too long: %d characters (max %d)", n, core.MaxPromptLength))
	}
	return trimmed, nil
}

// AspectRatio checks an optional aspect ratio. Empty is allowed.
func AspectRatio(ratio string) error {
	if ratio == "" || slices.Contains(core.SupportedAspectRatios, ratio) {
		return nil
	}
	return core.ErrInvalidInput(fmt.Sprintf("unsupported aspect ratio %q; supported: %s",
		ratio, strings.Join(core.SupportedAspectRatios, ", ")))
}
