package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"filesight/internal/model"
)

const (
	textMaxTokens  = 2000
	imageMaxTokens = 1500

	textPromptTemplate = `Analyze the following text and provide a comprehensive analysis. Return your response as a valid JSON object with this exact structure:
{
  "summary": "A concise 2-3 sentence summary of the text",
  "sentiment": {
    "label": "positive" or "negative" or "neutral",
    "score": a number between 0.0 and 1.0,
    "explanation": "Brief explanation of the sentiment"
  },
  "keyInsights": ["insight 1", "insight 2", "insight 3", "insight 4"]
}

Text to analyze:
%s

Respond ONLY with the JSON object, no additional text.`

	imagePrompt = `Analyze this image and provide a detailed analysis. Return your response as a valid JSON object with this exact structure:
{
  "imageDescription": "A detailed description of what you see in the image",
  "objects": ["object1", "object2", "object3"],
  "themes": ["theme1", "theme2", "theme3"]
}

Respond ONLY with the JSON object, no additional text.`
)

type AnthropicConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Version string
}

// AnthropicProvider talks to the Anthropic messages API. It honors the
// never-fail contract: request errors degrade to the deterministic mock
// output and unparseable responses degrade to a partial result built from the
// raw text.
type AnthropicProvider struct {
	cfg        AnthropicConfig
	httpClient *http.Client
}

func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	if cfg.Version == "" {
		cfg.Version = "2023-06-01"
	}
	return &AnthropicProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *AnthropicProvider) AnalyzeText(ctx context.Context, text string) Result {
	prompt := fmt.Sprintf(textPromptTemplate, text)
	raw, err := p.complete(ctx, textMaxTokens, prompt)
	if err != nil {
		return Result{
			Content: mockTextContent(text),
			Source:  SourceDegraded,
			Reason:  err.Error(),
		}
	}

	var parsed model.InsightContent
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		// Keep whatever the model said, just unstructured.
		return Result{
			Content: model.InsightContent{
				Summary:     truncate(raw, 500),
				Sentiment:   &model.Sentiment{Label: "neutral", Score: 0.5, Explanation: "Analysis completed"},
				KeyInsights: []string{"Analysis completed - see summary for details"},
			},
			Source: SourceDegraded,
			Reason: "model returned non-JSON response",
		}
	}

	if parsed.Summary == "" {
		parsed.Summary = "Unable to generate summary"
	}
	if parsed.Sentiment == nil {
		parsed.Sentiment = &model.Sentiment{Label: "neutral", Score: 0.5, Explanation: "Unable to analyze sentiment"}
	}
	if parsed.KeyInsights == nil {
		parsed.KeyInsights = []string{}
	}
	parsed.ImageDescription = ""
	parsed.Objects = nil
	parsed.Themes = nil

	return Result{Content: parsed, Source: SourceLive}
}

func (p *AnthropicProvider) AnalyzeImage(ctx context.Context, imageBase64, mediaType string) Result {
	blocks := []interface{}{
		map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": mediaType,
				"data":       imageBase64,
			},
		},
		map[string]interface{}{
			"type": "text",
			"text": imagePrompt,
		},
	}

	raw, err := p.complete(ctx, imageMaxTokens, blocks)
	if err != nil {
		return Result{
			Content: mockImageContent(),
			Source:  SourceDegraded,
			Reason:  err.Error(),
		}
	}

	var parsed model.InsightContent
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return Result{
			Content: model.InsightContent{ImageDescription: raw},
			Source:  SourceDegraded,
			Reason:  "model returned non-JSON response",
		}
	}

	if parsed.ImageDescription == "" {
		parsed.ImageDescription = "Unable to describe image"
	}
	parsed.Summary = ""
	parsed.Sentiment = nil
	parsed.KeyInsights = nil

	return Result{Content: parsed, Source: SourceLive}
}

func (p *AnthropicProvider) UsingMock() bool {
	return false
}

// complete sends one user message (a string or a block list) and returns the
// first text block of the reply.
func (p *AnthropicProvider) complete(ctx context.Context, maxTokens int, content interface{}) (string, error) {
	reqBody := map[string]interface{}{
		"model":      p.cfg.Model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{"role": "user", "content": content},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request failed: %w", err)
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build anthropic request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", p.cfg.Version)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read anthropic response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse anthropic json failed: %w", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text block in anthropic response")
}

// extractJSON strips a surrounding markdown code fence, if present.
func extractJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
