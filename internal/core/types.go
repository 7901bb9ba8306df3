package core

import "time"

// GenerationRequest is a single prompt to be relayed upstream.
type GenerationRequest struct {
	Prompt      string
	ModelID     string
	AspectRatio string
}

// ResultKind tags which arm of a GenerationResult is populated.
type ResultKind int

const (
	ResultImage ResultKind = iota
	ResultText
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultImage:
		return "image"
	case ResultText:
		return "text"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// ImageResult carries a base64 encoded image.
type ImageResult struct {
	Data      string
	MimeType  string
	ModelName string
}

// TextResult carries a text answer and a note explaining why no image was returned.
type TextResult struct {
	Content string
	Note    string
}

// ErrorResult carries a refusal reported inside an otherwise successful upstream response.
type ErrorResult struct {
	Message string
}

// GenerationResult is a tagged union; exactly one arm matching Kind is non-nil.
type GenerationResult struct {
	Kind  ResultKind
	Image *ImageResult
	Text  *TextResult
	Error *ErrorResult
}

// NewImageResult builds an Image-tagged result.
func NewImageResult(data, mimeType, modelName string) *GenerationResult {
	return &GenerationResult{
		Kind:  ResultImage,
		Image: &ImageResult{Data: data, MimeType: mimeType, ModelName: modelName},
	}
}

// NewTextResult builds a Text-tagged result.
func NewTextResult(content, note string) *GenerationResult {
	return &GenerationResult{
		Kind: ResultText,
		Text: &TextResult{Content: content, Note: note},
	}
}

// NewErrorResult builds an Error-tagged result.
func NewErrorResult(message string) *GenerationResult {
	return &GenerationResult{
		Kind:  ResultError,
		Error: &ErrorResult{Message: message},
	}
}

// RequestStats holds aggregated request statistics for monitoring.
type RequestStats struct {
	TotalRequests      int64           `json:"total_requests"`
	SuccessfulRequests int64           `json:"successful_requests"`
	FailedRequests     int64           `json:"failed_requests"`
	TotalResponseTime  int64           `json:"total_response_time"`
	LastRequestTime    time.Time       `json:"last_request_time"`
	RequestHistory     []RequestRecord `json:"request_history"`
}

// RequestRecord represents a single request's metadata for history tracking.
type RequestRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	ResponseTime int64     `json:"response_time"`
	Model        string    `json:"model"`
	Outcome      string    `json:"outcome"`
}

// PeriodStats holds computed statistics for a time period.
type PeriodStats struct {
	Requests        int64   `json:"requests"`
	SuccessRate     float64 `json:"successRate"`
	AvgResponseTime int64   `json:"avgResponseTime"`
	QPS             float64 `json:"qps"`
}
