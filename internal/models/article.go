package models

import (
	"time"

	"gorm.io/gorm"
)

// Article is a content item within a project.
type Article struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ProjectID       uint           `gorm:"index;not null" json:"project_id"`
	Title           string         `gorm:"size:200;not null" json:"title"`
	Content         string         `gorm:"type:text" json:"content"`
	SEOScore        *float64       `json:"seo_score,omitempty"`
	Keywords        string         `gorm:"size:1000" json:"keywords"` // comma-separated
	MetaDescription string         `gorm:"size:500" json:"meta_description"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Article) TableName() string { return "articles" }
