package core

// GeminiContentRequest is the generateContent request body.
type GeminiContentRequest struct {
	Contents         []GeminiContent         `json:"contents"`
	GenerationConfig *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

// GeminiContent is one turn of a generateContent conversation.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart is a single text or inline-data part. Responses may use either
// the camelCase or the snake_case inline data key.
type GeminiPart struct {
	Text            string            `json:"text,omitempty"`
	InlineData      *GeminiInlineData `json:"inlineData,omitempty"`
	InlineDataSnake *GeminiInlineData `json:"inline_data,omitempty"`
	Thought         bool              `json:"thought,omitempty"`
}

// Inline returns whichever inline data field is set.
func (p GeminiPart) Inline() *GeminiInlineData {
	if p.InlineData != nil {
		return p.InlineData
	}
	return p.InlineDataSnake
}

// GeminiInlineData is base64 encoded binary content.
type GeminiInlineData struct {
	MimeType      string `json:"mimeType,omitempty"`
	MimeTypeSnake string `json:"mime_type,omitempty"`
	Data          string `json:"data"`
}

// Mime returns whichever mime type field is set.
func (d GeminiInlineData) Mime() string {
	if d.MimeType != "" {
		return d.MimeType
	}
	return d.MimeTypeSnake
}

// GeminiGenerationConfig carries modality hints and image options.
type GeminiGenerationConfig struct {
	ResponseModalities []string           `json:"responseModalities,omitempty"`
	ImageConfig        *GeminiImageConfig `json:"imageConfig,omitempty"`
}

// GeminiImageConfig is the image section of generationConfig.
type GeminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

// ImagenPredictRequest is the Imagen :predict request body.
type ImagenPredictRequest struct {
	Instances  []ImagenInstance `json:"instances"`
	Parameters ImagenParameters `json:"parameters"`
}

// ImagenInstance holds the prompt of an Imagen request.
type ImagenInstance struct {
	Prompt string `json:"prompt"`
}

// ImagenParameters holds count, aspect ratio and safety options.
type ImagenParameters struct {
	SampleCount       int    `json:"sampleCount"`
	AspectRatio       string `json:"aspectRatio,omitempty"`
	SafetyFilterLevel string `json:"safetyFilterLevel,omitempty"`
	PersonGeneration  string `json:"personGeneration,omitempty"`
}

// UpstreamResponse is the union of every response shape the relay understands.
type UpstreamResponse struct {
	Predictions     []ImagenPrediction     `json:"predictions"`
	GeneratedImages []ImagenGeneratedImage `json:"generatedImages"`
	Candidates      []GeminiCandidate      `json:"candidates"`
	PromptFeedback  *GeminiPromptFeedback  `json:"promptFeedback"`
}

// ImagenPrediction is one entry of an Imagen :predict response.
type ImagenPrediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
	RaiFilteredReason  string `json:"raiFilteredReason"`
}

// ImagenGeneratedImage is one entry of an SDK-style generateImages response.
type ImagenGeneratedImage struct {
	Image struct {
		ImageBytes string `json:"imageBytes"`
		MimeType   string `json:"mimeType"`
	} `json:"image"`
	RaiFilteredReason string `json:"raiFilteredReason"`
}

// GeminiCandidate is one candidate of a generateContent response.
type GeminiCandidate struct {
	Content       *GeminiContent `json:"content"`
	FinishReason  string         `json:"finishReason"`
	FinishMessage string         `json:"finishMessage"`
}

// GeminiPromptFeedback reports a prompt blocked before generation.
type GeminiPromptFeedback struct {
	BlockReason        string `json:"blockReason"`
	BlockReasonMessage string `json:"blockReasonMessage"`
}

// GeminiErrorResponse is the error envelope returned by the Google APIs.
type GeminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
