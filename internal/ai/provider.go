package ai

import (
	"context"

	"filesight/internal/model"
)

// Source records how an analysis result was produced. Clients never see it;
// it exists so callers and tests can tell a degraded fallback from the real
// thing.
type Source string

const (
	SourceLive     Source = "live"
	SourceDegraded Source = "degraded"
	SourceMock     Source = "mock"
)

type Result struct {
	Content model.InsightContent
	Source  Source
	Reason  string
}

// Provider produces best-effort insight content. Implementations never fail:
// any transport or parse error degrades to placeholder content instead.
type Provider interface {
	AnalyzeText(ctx context.Context, text string) Result
	AnalyzeImage(ctx context.Context, imageBase64, mediaType string) Result
	UsingMock() bool
}
