package ai

import (
	"context"
	"fmt"
	"strings"

	"filesight/internal/model"
)

// MockProvider is the deterministic fallback used when no Anthropic
// credential is configured. Text analysis derives only word and sentence
// counts from the input; everything else is fixed placeholder content, and
// image analysis ignores the input entirely.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) AnalyzeText(_ context.Context, text string) Result {
	return Result{Content: mockTextContent(text), Source: SourceMock}
}

func (m *MockProvider) AnalyzeImage(_ context.Context, _, _ string) Result {
	return Result{Content: mockImageContent(), Source: SourceMock}
}

func (m *MockProvider) UsingMock() bool {
	return true
}

func mockTextContent(text string) model.InsightContent {
	words := len(strings.Fields(text))
	sentences := countSentences(text)

	depth := "brief"
	if words > 500 {
		depth = "detailed"
	}

	return model.InsightContent{
		Summary: fmt.Sprintf(
			"This document contains %d words and %d sentences. It appears to be a %s text that covers various topics. [Mock analysis - provide ANTHROPIC_API_KEY for real insights]",
			words, sentences, depth,
		),
		Sentiment: &model.Sentiment{
			Label:       "neutral",
			Score:       0.65,
			Explanation: "Mock sentiment analysis. The text appears to have a neutral tone with professional language. [Provide ANTHROPIC_API_KEY for accurate analysis]",
		},
		KeyInsights: []string{
			"This is a mock insight - the document structure appears well-organized",
			"Key themes include the main topics discussed in the text",
			"The content provides valuable information on the subject matter",
			"Further analysis available with Anthropic API integration",
		},
	}
}

func mockImageContent() model.InsightContent {
	return model.InsightContent{
		ImageDescription: "This is a mock image analysis. The image appears to contain various visual elements. [Provide ANTHROPIC_API_KEY for real image analysis using Claude Vision]",
		Objects:          []string{"Visual elements", "Colors and shapes", "Potential subjects"},
		Themes:           []string{"Photography", "Visual content", "Digital media"},
	}
}

// countSentences splits on sentence terminators and drops fragments that are
// empty after trimming.
func countSentences(text string) int {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}
