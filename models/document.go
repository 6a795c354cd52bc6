package models

import (
	"time"

	"gorm.io/gorm"
)

type Document struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename   string         `gorm:"type:varchar(255);default:''" json:"filename"`
	Content    string         `gorm:"type:text;default:''" json:"content"`
	Size       int64          `gorm:"default:0" json:"size"`
	Path       string         `gorm:"type:varchar(1000);default:''" json:"path"`
	SecurePath string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"secure_path"`
	IsShared   bool           `gorm:"default:false" json:"is_shared"`
	IsEditable bool           `gorm:"default:false" json:"is_editable"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (d Document) RecordID() uint {
	return d.ID
}

// DiskPath points at the optional plain-text export, not the authoritative
// content, which lives in the Content column.
func (d Document) DiskPath() string {
	return d.Path
}
