package model

import (
	"time"
)

// HTMLContentType is sent with every served artifact.
const HTMLContentType = "text/html; charset=utf-8"

// File holds the raw uploaded artifact of a project.
// Only the lowest-id file of a project is ever served.
type File struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename     string    `gorm:"type:text;not null" json:"filename"`
	OriginalName string    `gorm:"column:original_name;type:text;not null" json:"originalName"`
	Content      string    `gorm:"type:text;not null" json:"-"`
	Size         int64     `gorm:"not null" json:"size"`
	ProjectID    int64     `gorm:"column:project_id;not null;index" json:"projectId"`
	UploadedAt   time.Time `gorm:"column:uploaded_at;autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"uploadedAt"`
}

func (File) TableName() string { return "files" }
