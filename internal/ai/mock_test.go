package ai

import (
	"context"
	"strings"
	"testing"
)

func TestMockTextWordCount(t *testing.T) {
	provider := NewMockProvider()
	result := provider.AnalyzeText(context.Background(), "one two three four five")

	if result.Source != SourceMock {
		t.Errorf("expected mock source, got %s", result.Source)
	}
	if !strings.Contains(result.Content.Summary, "5 words") {
		t.Errorf("summary %q does not contain %q", result.Content.Summary, "5 words")
	}
}

func TestMockTextSentenceCount(t *testing.T) {
	provider := NewMockProvider()
	result := provider.AnalyzeText(context.Background(), "First sentence. Second sentence! Third sentence?")

	if !strings.Contains(result.Content.Summary, "3 sentences") {
		t.Errorf("summary %q does not contain %q", result.Content.Summary, "3 sentences")
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"three terminators", "A. B! C?", 3},
		{"trailing terminator", "One sentence.", 1},
		{"no terminator", "no terminator here", 1},
		{"consecutive terminators", "What?! Really?!", 2},
		{"whitespace fragments dropped", "A.   . B.", 2},
		{"empty input", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countSentences(tt.text); got != tt.want {
				t.Errorf("countSentences(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestMockTextStaticPlaceholders(t *testing.T) {
	provider := NewMockProvider()
	a := provider.AnalyzeText(context.Background(), "happy joyful wonderful")
	b := provider.AnalyzeText(context.Background(), "sad terrible awful")

	// Sentiment and key insights are placeholders, not derived from content.
	if *a.Content.Sentiment != *b.Content.Sentiment {
		t.Errorf("mock sentiment varies with content")
	}
	if a.Content.Sentiment.Label != "neutral" || a.Content.Sentiment.Score != 0.65 {
		t.Errorf("unexpected mock sentiment: %+v", a.Content.Sentiment)
	}
	if len(a.Content.KeyInsights) == 0 {
		t.Errorf("mock key insights empty")
	}
}

func TestMockImageIgnoresInput(t *testing.T) {
	provider := NewMockProvider()
	a := provider.AnalyzeImage(context.Background(), "aGVsbG8=", "image/png")
	b := provider.AnalyzeImage(context.Background(), "d29ybGQ=", "image/webp")

	if a.Content.ImageDescription != b.Content.ImageDescription {
		t.Errorf("mock image description varies with input")
	}
	if len(a.Content.Objects) == 0 || len(a.Content.Themes) == 0 {
		t.Errorf("mock image content missing objects or themes: %+v", a.Content)
	}
}

func TestMockShapeExclusivity(t *testing.T) {
	provider := NewMockProvider()

	text := provider.AnalyzeText(context.Background(), "hello world.")
	if text.Content.ImageDescription != "" || text.Content.Objects != nil || text.Content.Themes != nil {
		t.Errorf("text analysis populated image fields: %+v", text.Content)
	}

	image := provider.AnalyzeImage(context.Background(), "aGVsbG8=", "image/png")
	if image.Content.Summary != "" || image.Content.Sentiment != nil || image.Content.KeyInsights != nil {
		t.Errorf("image analysis populated text fields: %+v", image.Content)
	}
}

func TestMockUsingMock(t *testing.T) {
	if !NewMockProvider().UsingMock() {
		t.Error("mock provider should report mock mode")
	}
}
