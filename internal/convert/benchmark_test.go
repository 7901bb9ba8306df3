package convert

import (
	"strings"
	"testing"
)

func BenchmarkBuildPayload(b *testing.B) {
	prompt := strings.Repeat("a watercolor lighthouse at dusk ", 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildPayload(flashImage, prompt, "16:9"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalizeResponse_InlineImage(b *testing.B) {
	body := []byte(`{"candidates":[{"content":{"parts":[{"text":"Here you go"},{"inlineData":{"mimeType":"image/png","data":"` +
		strings.Repeat("A", 64*1024) + `"}}]},"finishReason":"STOP"}]}`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NormalizeResponse(body, flashImage); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalizeResponse_Text(b *testing.B) {
	body := []byte(`{"candidates":[{"content":{"parts":[{"text":"` + strings.Repeat("word ", 500) + `"}]},"finishReason":"STOP"}]}`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NormalizeResponse(body, flashText); err != nil {
			b.Fatal(err)
		}
	}
}
