package core

// EndpointKind selects the upstream request shape for a model.
type EndpointKind string

const (
	// EndpointGenerateContent is the Gemini generateContent API (multimodal parts).
	EndpointGenerateContent EndpointKind = "generateContent"
	// EndpointGenerateImage is the Imagen predict API (direct image generation).
	EndpointGenerateImage EndpointKind = "generateImage"
)

// Valid reports whether k is a known endpoint kind.
func (k EndpointKind) Valid() bool {
	return k == EndpointGenerateContent || k == EndpointGenerateImage
}

// ModelDescriptor describes one upstream backend. Descriptors are built at
// startup and never modified afterwards.
type ModelDescriptor struct {
	ID               string       `json:"id"`
	DisplayName      string       `json:"name"`
	EndpointKind     EndpointKind `json:"endpoint"`
	SupportsImageGen bool         `json:"supportsImageGen"`
}

// ModelInfo is a single entry of the GET /api/models response.
type ModelInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	SupportsImageGen bool   `json:"supportsImageGen"`
}

// ModelList is the GET /api/models response.
type ModelList struct {
	Models  []ModelInfo `json:"models"`
	Default string      `json:"default"`
}

// ModelsConfig is the on-disk shape of an optional models table override.
type ModelsConfig struct {
	Default  string            `json:"default"`
	Fallback string            `json:"fallback"`
	Models   []ModelDescriptor `json:"models"`
}
