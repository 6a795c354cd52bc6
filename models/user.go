package models

import (
	"time"
)

type User struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	Fullname   string    `gorm:"type:varchar(255);default:''" json:"fullname"`
	AvatarPath string    `gorm:"type:varchar(1000);default:''" json:"avatar_path"`
	DiskSpace  int64     `gorm:"default:1073741824" json:"disk_space"`
	UsedSpace  int64     `gorm:"default:0" json:"used_space"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
