package core

// Upstream endpoint constants
const (
	DefaultGeminiBaseURL  = "https://generativelanguage.googleapis.com"
	GeminiAPIVersion      = "v1beta"
	GenerateContentMethod = "generateContent"
	GenerateImageMethod   = "predict"
	GeminiRoleUser        = "user"
	ModalityText          = "TEXT"
	ModalityImage         = "IMAGE"
	FinishReasonStop      = "STOP"
)

// Default model table ids
const (
	ModelGeminiFlashImage        = "gemini-2.5-flash-image"
	ModelGeminiFlashImagePreview = "gemini-2.0-flash-preview-image-generation"
	ModelImagen4                 = "imagen-4.0-generate-001"
	ModelImagen3                 = "imagen-3.0-generate-002"
	ModelGeminiFlash             = "gemini-2.5-flash"

	DefaultModelID  = ModelGeminiFlashImage
	FallbackModelID = ModelGeminiFlashImagePreview
)

// Imagen request parameters
const (
	ImagenSampleCount       = 1
	ImagenDefaultAspect     = "1:1"
	ImagenSafetyFilterLevel = "block_medium_and_above"
	ImagenPersonGeneration  = "allow_adult"
)

// SupportedAspectRatios lists aspect ratios accepted on a generation request.
var SupportedAspectRatios = []string{"1:1", "3:4", "4:3", "9:16", "16:9"}

// Client-facing notes for text results
const (
	NoteTextInsteadOfImage = "The model answered with text instead of an image. Try rephrasing the prompt as an image description."
	NoteTextOnlyModel      = "This model does not generate images; showing its text answer."
)
