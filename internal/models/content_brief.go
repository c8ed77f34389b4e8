package models

import (
	"time"

	"gorm.io/gorm"
)

// ContentBrief is an AI-generated outline for a planned piece of content.
// Generation is gated by the user's usage quota.
type ContentBrief struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	ProjectID      *uint          `gorm:"index" json:"project_id,omitempty"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Topic          string         `gorm:"size:500" json:"topic"`
	TargetAudience string         `gorm:"size:500" json:"target_audience"`
	ContentOutline string         `gorm:"type:text" json:"content_outline"` // JSON array
	KeyPoints      string         `gorm:"type:text" json:"key_points"`      // JSON array
	ToneStyle      string         `gorm:"size:100" json:"tone_style"`
	WordCount      string         `gorm:"size:50" json:"word_count"`
	TargetKeywords string         `gorm:"size:1000" json:"target_keywords"` // JSON array
	SEOTips        string         `gorm:"type:text" json:"seo_tips"`        // JSON array
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ContentBrief) TableName() string { return "content_briefs" }
