package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func anthropicStub(t *testing.T, status int, replyText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") == "" {
			t.Errorf("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}

		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"error":{"type":"overloaded_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{
				{"type": "text", "text": replyText},
			},
		})
	}))
}

func newTestProvider(baseURL string) *AnthropicProvider {
	return NewAnthropicProvider(AnthropicConfig{
		BaseURL: baseURL,
		APIKey:  "sk-ant-test",
		Model:   "claude-sonnet-4-20250514",
	})
}

func TestAnthropicTextLiveResult(t *testing.T) {
	reply := `{"summary":"A short note.","sentiment":{"label":"positive","score":0.9,"explanation":"upbeat"},"keyInsights":["a","b"]}`
	server := anthropicStub(t, http.StatusOK, reply)
	defer server.Close()

	result := newTestProvider(server.URL).AnalyzeText(context.Background(), "some text")

	if result.Source != SourceLive {
		t.Fatalf("expected live source, got %s (%s)", result.Source, result.Reason)
	}
	if result.Content.Summary != "A short note." {
		t.Errorf("unexpected summary %q", result.Content.Summary)
	}
	if result.Content.Sentiment == nil || result.Content.Sentiment.Label != "positive" {
		t.Errorf("unexpected sentiment %+v", result.Content.Sentiment)
	}
}

func TestAnthropicTextFencedJSON(t *testing.T) {
	reply := "```json\n{\"summary\":\"Fenced.\",\"sentiment\":{\"label\":\"neutral\",\"score\":0.5,\"explanation\":\"ok\"},\"keyInsights\":[]}\n```"
	server := anthropicStub(t, http.StatusOK, reply)
	defer server.Close()

	result := newTestProvider(server.URL).AnalyzeText(context.Background(), "some text")

	if result.Source != SourceLive {
		t.Fatalf("expected live source, got %s (%s)", result.Source, result.Reason)
	}
	if result.Content.Summary != "Fenced." {
		t.Errorf("fenced JSON not parsed: %+v", result.Content)
	}
}

func TestAnthropicTextNonJSONDegrades(t *testing.T) {
	reply := "Here is my analysis: the document is quite interesting overall."
	server := anthropicStub(t, http.StatusOK, reply)
	defer server.Close()

	result := newTestProvider(server.URL).AnalyzeText(context.Background(), "some text")

	if result.Source != SourceDegraded {
		t.Fatalf("expected degraded source, got %s", result.Source)
	}
	if !strings.Contains(result.Content.Summary, "quite interesting") {
		t.Errorf("raw text lost in degraded summary: %q", result.Content.Summary)
	}
	if result.Content.Sentiment == nil || result.Content.Sentiment.Score != 0.5 {
		t.Errorf("degraded result missing neutral placeholder sentiment: %+v", result.Content.Sentiment)
	}
}

func TestAnthropicTextAPIErrorFallsBackToMock(t *testing.T) {
	server := anthropicStub(t, http.StatusInternalServerError, "")
	defer server.Close()

	result := newTestProvider(server.URL).AnalyzeText(context.Background(), "one two three")

	if result.Source != SourceDegraded {
		t.Fatalf("expected degraded source, got %s", result.Source)
	}
	if result.Reason == "" {
		t.Errorf("degraded result carries no reason")
	}
	// Falls back to the deterministic mock template.
	if !strings.Contains(result.Content.Summary, "3 words") {
		t.Errorf("expected mock fallback content, got %q", result.Content.Summary)
	}
}

func TestAnthropicImageLiveResult(t *testing.T) {
	reply := `{"imageDescription":"A red bicycle.","objects":["bicycle"],"themes":["transport"]}`
	server := anthropicStub(t, http.StatusOK, reply)
	defer server.Close()

	result := newTestProvider(server.URL).AnalyzeImage(context.Background(), "aGVsbG8=", "image/png")

	if result.Source != SourceLive {
		t.Fatalf("expected live source, got %s (%s)", result.Source, result.Reason)
	}
	if result.Content.ImageDescription != "A red bicycle." {
		t.Errorf("unexpected description %q", result.Content.ImageDescription)
	}
	if result.Content.Summary != "" || result.Content.Sentiment != nil {
		t.Errorf("image result populated text fields: %+v", result.Content)
	}
}

func TestAnthropicImageNonJSONDegrades(t *testing.T) {
	reply := "I can see a landscape with mountains."
	server := anthropicStub(t, http.StatusOK, reply)
	defer server.Close()

	result := newTestProvider(server.URL).AnalyzeImage(context.Background(), "aGVsbG8=", "image/png")

	if result.Source != SourceDegraded {
		t.Fatalf("expected degraded source, got %s", result.Source)
	}
	if result.Content.ImageDescription != reply {
		t.Errorf("raw text lost in degraded description: %q", result.Content.ImageDescription)
	}
}

func TestAnthropicTransportErrorFallsBackToMock(t *testing.T) {
	// Point at a closed server to force a transport failure.
	server := anthropicStub(t, http.StatusOK, "{}")
	server.Close()

	result := newTestProvider(server.URL).AnalyzeImage(context.Background(), "aGVsbG8=", "image/png")

	if result.Source != SourceDegraded {
		t.Fatalf("expected degraded source, got %s", result.Source)
	}
	if result.Content.ImageDescription == "" {
		t.Errorf("expected mock fallback description")
	}
}

func TestAnthropicUsingMock(t *testing.T) {
	if newTestProvider("http://localhost:1").UsingMock() {
		t.Error("live provider should not report mock mode")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
