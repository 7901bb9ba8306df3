package core

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnsupportedModel   = "UNSUPPORTED_MODEL"
	ErrCodeMissingCredential  = "MISSING_CREDENTIAL"
	ErrCodeUpstreamFailure    = "UPSTREAM_FAILURE"
	ErrCodeNoContent          = "NO_CONTENT"
	ErrCodeTransportFailure   = "TRANSPORT_FAILURE"
	ErrCodeConfigLoadFailed   = "CONFIG_LOAD_FAILED"
	ErrCodeInvalidModelsTable = "INVALID_MODELS_TABLE"
)

// AppError is the classified error returned by the dispatcher and config layers.
type AppError struct {
	Code    string // machine readable code
	Message string // client facing message
	Status  int    // HTTP status the error maps to
	Cause   error
}

// Error implements error
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap supports errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code, message string, status int, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Cause:   cause,
	}
}

// ErrInvalidInput rejects a malformed generation request.
func ErrInvalidInput(reason string) *AppError {
	return NewAppError(ErrCodeInvalidInput, reason, http.StatusBadRequest, nil)
}

// ErrUnsupportedModel rejects an unknown model id, listing the valid ones.
func ErrUnsupportedModel(modelID string, valid []string) *AppError {
	ids := append([]string(nil), valid...)
	sort.Strings(ids)
	return NewAppError(
		ErrCodeUnsupportedModel,
		fmt.Sprintf("unsupported model %q; valid models: %s", modelID, strings.Join(ids, ", ")),
		http.StatusBadRequest,
		nil,
	)
}

// ErrMissingCredential reports that no upstream API key is configured.
func ErrMissingCredential() *AppError {
	return NewAppError(
		ErrCodeMissingCredential,
		"server is not configured: GEMINI_API_KEY is not set",
		http.StatusInternalServerError,
		nil,
	)
}

// ErrUpstream propagates a non-success upstream response.
func ErrUpstream(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("upstream request failed with status %d", status)
	}
	return NewAppError(ErrCodeUpstreamFailure, message, status, nil)
}

// ErrNoContent reports an upstream response with nothing usable in it.
func ErrNoContent(reason string, cause error) *AppError {
	return NewAppError(ErrCodeNoContent, reason, http.StatusInternalServerError, cause)
}

// ErrTransport reports a transport-level failure talking to upstream.
func ErrTransport(cause error) *AppError {
	return NewAppError(ErrCodeTransportFailure, "failed to reach upstream API", http.StatusInternalServerError, cause)
}

// ErrConfigLoadFailed config loading failed
func ErrConfigLoadFailed(configType string, cause error) *AppError {
	return NewAppError(
		ErrCodeConfigLoadFailed,
		fmt.Sprintf("failed to load %s configuration", configType),
		http.StatusInternalServerError,
		cause,
	)
}

// ErrInvalidModelsTable rejects an inconsistent model table.
func ErrInvalidModelsTable(reason string) *AppError {
	return NewAppError(ErrCodeInvalidModelsTable, reason, http.StatusInternalServerError, nil)
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsServiceUnavailable reports an upstream 503.
func IsServiceUnavailable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == ErrCodeUpstreamFailure && appErr.Status == http.StatusServiceUnavailable
}

// IsRetryable reports whether another attempt may succeed: upstream 503 or transport failure.
func IsRetryable(err error) bool {
	return IsServiceUnavailable(err) || HasCode(err, ErrCodeTransportFailure)
}

// StatusOf maps err to the HTTP status sent to the client.
func StatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf maps err to the message sent to the client. Unclassified errors
// are not echoed.
func MessageOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Message
	}
	return "internal server error"
}
