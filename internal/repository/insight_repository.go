package repository

import (
	"fmt"

	"gorm.io/gorm"

	"filesight/internal/model"
)

type InsightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

func (r *InsightRepository) ListByUploadID(uploadID uint) ([]model.Insight, error) {
	var insights []model.Insight
	if err := r.db.Where("upload_id = ?", uploadID).Order("created_at DESC").Find(&insights).Error; err != nil {
		return nil, fmt.Errorf("list insights failed: %w", err)
	}
	return insights, nil
}

// CountByUploadIDs returns insight counts grouped by upload, for annotating
// upload listings without loading insight bodies.
func (r *InsightRepository) CountByUploadIDs(uploadIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(uploadIDs))
	if len(uploadIDs) == 0 {
		return counts, nil
	}

	type row struct {
		UploadID uint
		N        int64
	}
	var rows []row
	err := r.db.Model(&model.Insight{}).
		Select("upload_id, COUNT(*) AS n").
		Where("upload_id IN ?", uploadIDs).
		Group("upload_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count insights failed: %w", err)
	}

	for _, c := range rows {
		counts[c.UploadID] = c.N
	}
	return counts, nil
}

// CreateIfAbsent inserts the insight unless the upload already has insights,
// inside one transaction. The unique index on (upload_id, type) closes the
// remaining race window: a loser's insert fails and the winner's rows are
// returned instead. The bool reports whether this call created the row.
func (r *InsightRepository) CreateIfAbsent(insight *model.Insight) ([]model.Insight, bool, error) {
	var existing []model.Insight
	created := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("upload_id = ?", insight.UploadID).Order("created_at DESC").Find(&existing).Error; err != nil {
			return fmt.Errorf("check existing insights failed: %w", err)
		}
		if len(existing) > 0 {
			return nil
		}
		if err := tx.Create(insight).Error; err != nil {
			return fmt.Errorf("create insight failed: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		// A duplicate-key failure means a concurrent request won; hand its
		// rows back so both callers observe the same insight set.
		var raced []model.Insight
		if listErr := r.db.Where("upload_id = ?", insight.UploadID).Order("created_at DESC").Find(&raced).Error; listErr == nil && len(raced) > 0 {
			return raced, false, nil
		}
		return nil, false, err
	}

	if created {
		return []model.Insight{*insight}, true, nil
	}
	return existing, false, nil
}

func (r *InsightRepository) DeleteByUploadID(uploadID uint) error {
	if err := r.db.Where("upload_id = ?", uploadID).Delete(&model.Insight{}).Error; err != nil {
		return fmt.Errorf("delete insights failed: %w", err)
	}
	return nil
}
