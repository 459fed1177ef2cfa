package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"filesight/internal/ai"
	"filesight/internal/model"
)

// InsightCache mirrors the Redis-backed cache; nil disables caching.
type InsightCache interface {
	Get(ctx context.Context, uploadID uint) ([]model.Insight, bool, error)
	Set(ctx context.Context, uploadID uint, insights []model.Insight) error
	Delete(ctx context.Context, uploadID uint) error
	MarkDirty(ctx context.Context, uploadID uint) error
	IsDirty(ctx context.Context, uploadID uint) (bool, error)
}

type InsightService struct {
	uploads  UploadStore
	insights InsightStore
	objects  ObjectStore
	provider ai.Provider
	cache    InsightCache
	events   EventPublisher
}

type AnalyzeResult struct {
	Insights         []model.Insight
	AlreadyGenerated bool
}

func NewInsightService(
	uploads UploadStore,
	insights InsightStore,
	objects ObjectStore,
	provider ai.Provider,
	cache InsightCache,
	events EventPublisher,
) *InsightService {
	return &InsightService{
		uploads:  uploads,
		insights: insights,
		objects:  objects,
		provider: provider,
		cache:    cache,
		events:   events,
	}
}

// Analyze generates insights for an upload exactly once. Repeated calls
// return the stored rows without touching the provider. The image-vs-text
// decision is made here, at first analysis, and fixed by the persisted type.
func (s *InsightService) Analyze(ctx context.Context, requesterID, uploadID uint) (*AnalyzeResult, error) {
	if requesterID == 0 || uploadID == 0 {
		return nil, ErrInvalidInput
	}

	upload, err := s.uploads.GetByIDAndUserID(uploadID, requesterID)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrUploadNotFound
	}

	existing, err := s.insights.ListByUploadID(uploadID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &AnalyzeResult{Insights: existing, AlreadyGenerated: true}, nil
	}

	data, err := s.objects.Get(ctx, upload.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("fetch upload content failed: %w", err)
	}

	var result ai.Result
	insightType := model.InsightTypeText
	if strings.HasPrefix(upload.FileType, "image/") {
		insightType = model.InsightTypeImage
		encoded := base64.StdEncoding.EncodeToString(data)
		result = s.provider.AnalyzeImage(ctx, encoded, upload.FileType)
	} else {
		result = s.provider.AnalyzeText(ctx, string(data))
	}
	if result.Source == ai.SourceDegraded {
		log.Printf("analysis degraded for upload %d: %s", uploadID, result.Reason)
	}

	insight := &model.Insight{
		UploadID: uploadID,
		Type:     insightType,
		Content:  result.Content,
	}
	rows, created, err := s.insights.CreateIfAbsent(insight)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.MarkDirty(ctx, uploadID)
		_ = s.cache.Delete(ctx, uploadID)
	}
	if created {
		s.publishAnalysisEvent(ctx, requesterID, uploadID, string(result.Source))
	}

	return &AnalyzeResult{Insights: rows, AlreadyGenerated: !created}, nil
}

// ListByUpload returns the upload's insights newest first, ownership-gated.
func (s *InsightService) ListByUpload(ctx context.Context, requesterID, uploadID uint) ([]model.Insight, error) {
	if requesterID == 0 || uploadID == 0 {
		return nil, ErrInvalidInput
	}

	upload, err := s.uploads.GetByIDAndUserID(uploadID, requesterID)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrUploadNotFound
	}

	if s.cache != nil {
		dirty, err := s.cache.IsDirty(ctx, uploadID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.cache.Get(ctx, uploadID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	insights, err := s.insights.ListByUploadID(uploadID)
	if err != nil {
		return nil, err
	}
	if insights == nil {
		insights = []model.Insight{}
	}
	if s.cache != nil {
		if dirty, dirtyErr := s.cache.IsDirty(ctx, uploadID); dirtyErr == nil && !dirty {
			_ = s.cache.Set(ctx, uploadID, insights)
		}
	}
	return insights, nil
}

func (s *InsightService) UsingMock() bool {
	return s.provider.UsingMock()
}

func (s *InsightService) publishAnalysisEvent(ctx context.Context, userID, uploadID uint, detail string) {
	if s.events == nil {
		return
	}
	event := model.ActivityEvent{
		UserID:   userID,
		UploadID: uploadID,
		Action:   model.ActionAnalysisCompleted,
		Detail:   detail,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("publish analysis event failed: %v", err)
	}
}
