package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"filesight/internal/model"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(upload *model.Upload) error {
	if err := r.db.Create(upload).Error; err != nil {
		return fmt.Errorf("create upload failed: %w", err)
	}
	return nil
}

func (r *UploadRepository) ListByUserID(userID uint) ([]model.Upload, error) {
	var uploads []model.Upload
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&uploads).Error; err != nil {
		return nil, fmt.Errorf("list uploads failed: %w", err)
	}
	return uploads, nil
}

func (r *UploadRepository) GetByIDAndUserID(id, userID uint) (*model.Upload, error) {
	var upload model.Upload
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get upload failed: %w", err)
	}
	return &upload, nil
}

func (r *UploadRepository) DeleteByIDAndUserID(id, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Upload{}).Error; err != nil {
		return fmt.Errorf("delete upload failed: %w", err)
	}
	return nil
}
