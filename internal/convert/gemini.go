package convert

import (
	"fmt"
	"net/url"
	"strings"

	"imagerelay/internal/core"
	"imagerelay/internal/util"

	"github.com/bytedance/sonic"
)

// BuildContentRequest builds a generateContent request. Image-capable models
// are asked for both modalities; text-only models for text.
func BuildContentRequest(model core.ModelDescriptor, prompt, aspectRatio string) core.GeminiContentRequest {
	modalities := []string{core.ModalityText}
	if model.SupportsImageGen {
		modalities = append(modalities, core.ModalityImage)
	}

	genConfig := &core.GeminiGenerationConfig{ResponseModalities: modalities}
	if aspectRatio != "" && model.SupportsImageGen {
		genConfig.ImageConfig = &core.GeminiImageConfig{AspectRatio: aspectRatio}
	}

	return core.GeminiContentRequest{
		Contents: []core.GeminiContent{{
			Role:  core.GeminiRoleUser,
			Parts: []core.GeminiPart{{Text: prompt}},
		}},
		GenerationConfig: genConfig,
	}
}

// BuildImageRequest builds an Imagen :predict request.
func BuildImageRequest(prompt, aspectRatio string) core.ImagenPredictRequest {
	if aspectRatio == "" {
		aspectRatio = core.ImagenDefaultAspect
	}
	return core.ImagenPredictRequest{
		Instances: []core.ImagenInstance{{Prompt: prompt}},
		Parameters: core.ImagenParameters{
			SampleCount:       core.ImagenSampleCount,
			AspectRatio:       aspectRatio,
			SafetyFilterLevel: core.ImagenSafetyFilterLevel,
			PersonGeneration:  core.ImagenPersonGeneration,
		},
	}
}

// BuildPayload serializes the request shape matching model's endpoint kind.
func BuildPayload(model core.ModelDescriptor, prompt, aspectRatio string) ([]byte, error) {
	var payload any
	switch model.EndpointKind {
	case core.EndpointGenerateContent:
		payload = BuildContentRequest(model, prompt, aspectRatio)
	case core.EndpointGenerateImage:
		payload = BuildImageRequest(prompt, aspectRatio)
	default:
		return nil, fmt.Errorf("model %s has unknown endpoint kind %q", model.ID, model.EndpointKind)
	}

	payloadBytes, err := util.MarshalJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return payloadBytes, nil
}

// EndpointURL returns the upstream URL for model, e.g.
// https://generativelanguage.googleapis.com/v1beta/models/imagen-4.0-generate-001:predict
func EndpointURL(baseURL string, model core.ModelDescriptor) string {
	method := core.GenerateContentMethod
	if model.EndpointKind == core.EndpointGenerateImage {
		method = core.GenerateImageMethod
	}
	return fmt.Sprintf("%s/%s/models/%s:%s",
		strings.TrimRight(baseURL, "/"), core.GeminiAPIVersion, url.PathEscape(model.ID), method)
}

// ExtractUpstreamErrorMessage returns error.message from a Google API error
// body, or the trimmed raw body when it is not in that shape.
func ExtractUpstreamErrorMessage(body []byte) string {
	var errResp core.GeminiErrorResponse
	if err := sonic.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return strings.TrimSpace(string(body))
}
