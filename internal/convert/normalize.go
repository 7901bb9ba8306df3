package convert

import (
	"fmt"
	"strings"

	"imagerelay/internal/core"

	"github.com/bytedance/sonic"
)

// NormalizeResponse maps an upstream response body onto a GenerationResult.
// Interpretations are tried in order: image array, inline image part, text
// part, non-normal finish. The first match wins; no match is NoContent.
func NormalizeResponse(body []byte, model core.ModelDescriptor) (*core.GenerationResult, error) {
	var resp core.UpstreamResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return nil, core.ErrNoContent("upstream returned a malformed response", err)
	}

	if result := imageFromArray(&resp, model); result != nil {
		return result, nil
	}
	if result := imageFromParts(&resp, model); result != nil {
		return result, nil
	}
	if result := textFromParts(&resp, model); result != nil {
		return result, nil
	}
	if result := abnormalFinish(&resp); result != nil {
		return result, nil
	}

	return nil, core.ErrNoContent("no image or text was returned by the model", nil)
}

func imageFromArray(resp *core.UpstreamResponse, model core.ModelDescriptor) *core.GenerationResult {
	for _, p := range resp.Predictions {
		if p.BytesBase64Encoded != "" {
			return core.NewImageResult(p.BytesBase64Encoded, mimeOrDefault(p.MimeType), model.DisplayName)
		}
	}
	for _, g := range resp.GeneratedImages {
		if g.Image.ImageBytes != "" {
			return core.NewImageResult(g.Image.ImageBytes, mimeOrDefault(g.Image.MimeType), model.DisplayName)
		}
	}
	return nil
}

func imageFromParts(resp *core.UpstreamResponse, model core.ModelDescriptor) *core.GenerationResult {
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if inline := part.Inline(); inline != nil && inline.Data != "" {
				return core.NewImageResult(inline.Data, mimeOrDefault(inline.Mime()), model.DisplayName)
			}
		}
	}
	return nil
}

func textFromParts(resp *core.UpstreamResponse, model core.ModelDescriptor) *core.GenerationResult {
	var texts []string
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.Thought {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				texts = append(texts, text)
			}
		}
		if len(texts) > 0 {
			break
		}
	}
	if len(texts) == 0 {
		return nil
	}

	note := core.NoteTextInsteadOfImage
	if !model.SupportsImageGen {
		note = core.NoteTextOnlyModel
	}
	return core.NewTextResult(strings.Join(texts, "\n"), note)
}

func abnormalFinish(resp *core.UpstreamResponse) *core.GenerationResult {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return core.NewErrorResult(describeStop("prompt was blocked", fb.BlockReason, fb.BlockReasonMessage))
	}
	for _, c := range resp.Candidates {
		if c.FinishReason != "" && c.FinishReason != core.FinishReasonStop {
			return core.NewErrorResult(describeStop("generation stopped", c.FinishReason, c.FinishMessage))
		}
	}
	for _, p := range resp.Predictions {
		if p.RaiFilteredReason != "" {
			return core.NewErrorResult(describeStop("image was filtered", "SAFETY", p.RaiFilteredReason))
		}
	}
	for _, g := range resp.GeneratedImages {
		if g.RaiFilteredReason != "" {
			return core.NewErrorResult(describeStop("image was filtered", "SAFETY", g.RaiFilteredReason))
		}
	}
	return nil
}

func describeStop(what, reason, detail string) string {
	if detail != "" {
		return fmt.Sprintf("%s (%s): %s", what, reason, detail)
	}
	return fmt.Sprintf("%s (%s)", what, reason)
}

func mimeOrDefault(mime string) string {
	if mime == "" {
		return core.ImageFormatPNG
	}
	return mime
}
