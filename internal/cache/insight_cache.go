package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"filesight/internal/model"
)

// InsightCache keeps an upload's insight list in Redis. A short-lived dirty
// marker is set around writes so a read racing a write never repopulates the
// cache with stale rows.
type InsightCache struct {
	client         *redisv9.Client
	insightTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewInsightCache(client *redisv9.Client, insightTTL, dirtyMarkerTTL time.Duration) *InsightCache {
	if insightTTL <= 0 {
		insightTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &InsightCache{
		client:         client,
		insightTTL:     insightTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *InsightCache) Get(ctx context.Context, uploadID uint) ([]model.Insight, bool, error) {
	raw, err := c.client.Get(ctx, c.insightKey(uploadID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get insights failed: %w", err)
	}

	var insights []model.Insight
	if err := json.Unmarshal([]byte(raw), &insights); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached insights failed: %w", err)
	}
	return insights, true, nil
}

func (c *InsightCache) Set(ctx context.Context, uploadID uint, insights []model.Insight) error {
	payload, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("marshal insight cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.insightKey(uploadID), payload, c.insightTTL).Err(); err != nil {
		return fmt.Errorf("redis set insights failed: %w", err)
	}
	return nil
}

func (c *InsightCache) Delete(ctx context.Context, uploadID uint) error {
	if err := c.client.Del(ctx, c.insightKey(uploadID)).Err(); err != nil {
		return fmt.Errorf("redis delete insights failed: %w", err)
	}
	return nil
}

func (c *InsightCache) MarkDirty(ctx context.Context, uploadID uint) error {
	if err := c.client.Set(ctx, c.dirtyKey(uploadID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *InsightCache) IsDirty(ctx context.Context, uploadID uint) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(uploadID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *InsightCache) insightKey(uploadID uint) string {
	return fmt.Sprintf("insights:upload:%d", uploadID)
}

func (c *InsightCache) dirtyKey(uploadID uint) string {
	return fmt.Sprintf("insights:upload:dirty:%d", uploadID)
}
