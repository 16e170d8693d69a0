package model

import (
	"time"
)

type Project struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug       string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"slug"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	EntryPoint string    `gorm:"column:entry_point;type:text;not null" json:"entryPoint"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true" json:"isActive"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"uploadedAt"`

	// Project <-> File
	Files []File `gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

func (Project) TableName() string { return "projects" }
