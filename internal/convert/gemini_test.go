package convert

import (
	"testing"

	"imagerelay/internal/core"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	flashImage = core.ModelDescriptor{ID: core.ModelGeminiFlashImage, DisplayName: "Gemini 2.5 Flash Image", EndpointKind: core.EndpointGenerateContent, SupportsImageGen: true}
	flashText  = core.ModelDescriptor{ID: core.ModelGeminiFlash, DisplayName: "Gemini 2.5 Flash", EndpointKind: core.EndpointGenerateContent}
	imagen     = core.ModelDescriptor{ID: core.ModelImagen4, DisplayName: "Imagen 4", EndpointKind: core.EndpointGenerateImage, SupportsImageGen: true}
)

func TestBuildPayload_GenerateContent(t *testing.T) {
	payload, err := BuildPayload(flashImage, "a koi pond", "")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(payload, &decoded))

	contents := decoded["contents"].([]any)
	require.Len(t, contents, 1)
	first := contents[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	parts := first["parts"].([]any)
	assert.Equal(t, "a koi pond", parts[0].(map[string]any)["text"])

	genConfig := decoded["generationConfig"].(map[string]any)
	assert.Equal(t, []any{"TEXT", "IMAGE"}, genConfig["responseModalities"])
	assert.NotContains(t, genConfig, "imageConfig")
}

func TestBuildPayload_GenerateContentTextOnly(t *testing.T) {
	req := BuildContentRequest(flashText, "describe a koi pond", "16:9")
	assert.Equal(t, []string{core.ModalityText}, req.GenerationConfig.ResponseModalities)
	assert.Nil(t, req.GenerationConfig.ImageConfig, "text-only models get no image options")
}

func TestBuildPayload_GenerateContentAspectRatio(t *testing.T) {
	req := BuildContentRequest(flashImage, "a koi pond", "16:9")
	require.NotNil(t, req.GenerationConfig.ImageConfig)
	assert.Equal(t, "16:9", req.GenerationConfig.ImageConfig.AspectRatio)
}

func TestBuildPayload_GenerateImage(t *testing.T) {
	payload, err := BuildPayload(imagen, "a koi pond", "")
	require.NoError(t, err)

	var decoded core.ImagenPredictRequest
	require.NoError(t, sonic.Unmarshal(payload, &decoded))

	require.Len(t, decoded.Instances, 1)
	assert.Equal(t, "a koi pond", decoded.Instances[0].Prompt)
	assert.Equal(t, 1, decoded.Parameters.SampleCount)
	assert.Equal(t, core.ImagenDefaultAspect, decoded.Parameters.AspectRatio)
	assert.Equal(t, core.ImagenSafetyFilterLevel, decoded.Parameters.SafetyFilterLevel)

	assert.Equal(t, "3:4", BuildImageRequest("x", "3:4").Parameters.AspectRatio)
}

func TestBuildPayload_UnknownEndpoint(t *testing.T) {
	_, err := BuildPayload(core.ModelDescriptor{ID: "odd", EndpointKind: "stream"}, "x", "")
	assert.Error(t, err)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t,
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-image:generateContent",
		EndpointURL(core.DefaultGeminiBaseURL, flashImage))
	assert.Equal(t,
		"http://127.0.0.1:8080/v1beta/models/imagen-4.0-generate-001:predict",
		EndpointURL("http://127.0.0.1:8080/", imagen))
}

func TestExtractUpstreamErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"google error envelope", `{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`, "The model is overloaded."},
		{"plain text", "  upstream exploded \n", "upstream exploded"},
		{"json without message", `{"error":{"code":400}}`, `{"error":{"code":400}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUpstreamErrorMessage([]byte(tt.body)))
		})
	}
}
