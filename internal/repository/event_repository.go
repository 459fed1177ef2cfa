package repository

import (
	"fmt"

	"gorm.io/gorm"

	"filesight/internal/model"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *model.ActivityEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create activity event failed: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByUserID(userID uint, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []model.ActivityEvent
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list activity events failed: %w", err)
	}
	return events, nil
}
