package model

import "time"

const (
	ActionUploadCreated     = "upload_created"
	ActionUploadDeleted     = "upload_deleted"
	ActionAnalysisCompleted = "analysis_completed"
)

// ActivityEvent is an audit record persisted asynchronously by the event worker.
type ActivityEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	UploadID  uint      `gorm:"index" json:"uploadId"`
	Action    string    `gorm:"size:32;not null;index" json:"action"`
	Detail    string    `gorm:"size:255" json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}
