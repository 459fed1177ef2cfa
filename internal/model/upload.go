package model

import "time"

type Upload struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	FileType  string    `gorm:"size:64;not null" json:"fileType"`
	FileSize  int64     `gorm:"not null" json:"fileSize"`
	FileURL   string    `gorm:"size:512;not null" json:"fileUrl"`
	ObjectKey string    `gorm:"size:512;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
