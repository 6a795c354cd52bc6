package models

import (
	"time"

	"gorm.io/gorm"
)

type File struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"filename"`
	OriginalName string         `gorm:"type:varchar(255);default:''" json:"original_name"`
	Size         int64          `gorm:"default:0" json:"size"`
	Path         string         `gorm:"type:varchar(1000);not null" json:"path"`
	Mimetype     string         `gorm:"type:varchar(100)" json:"mimetype"`
	IsShared     bool           `gorm:"default:false" json:"is_shared"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Content holds decoded text for text/* files; never persisted.
	Content string `gorm:"-" json:"content,omitempty"`
}

func (f File) RecordID() uint {
	return f.ID
}

func (f File) DiskPath() string {
	return f.Path
}
