package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	InsightTypeText  = "text_analysis"
	InsightTypeImage = "image_analysis"
)

// Insight is one generated analysis attached to an upload. The composite
// unique index backs the at-most-one-analysis-per-upload guarantee.
type Insight struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UploadID  uint           `gorm:"not null;uniqueIndex:idx_upload_insight_type" json:"uploadId"`
	Type      string         `gorm:"size:32;not null;uniqueIndex:idx_upload_insight_type" json:"type"`
	Content   InsightContent `gorm:"type:json" json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Sentiment struct {
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// InsightContent is polymorphic: the text fields or the image fields are
// populated, never both.
type InsightContent struct {
	Summary     string     `json:"summary,omitempty"`
	Sentiment   *Sentiment `json:"sentiment,omitempty"`
	KeyInsights []string   `json:"keyInsights,omitempty"`

	ImageDescription string   `json:"imageDescription,omitempty"`
	Objects          []string `json:"objects,omitempty"`
	Themes           []string `json:"themes,omitempty"`
}

func (c InsightContent) Value() (driver.Value, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal insight content failed: %w", err)
	}
	return string(payload), nil
}

func (c *InsightContent) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = InsightContent{}
		return nil
	default:
		return fmt.Errorf("unsupported insight content column type %T", value)
	}
}
