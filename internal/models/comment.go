package models

import "time"

// ArticleComment is an inline or general comment on an article.
type ArticleComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"index;not null" json:"article_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Position  string    `gorm:"size:500" json:"position,omitempty"` // JSON editor anchor
	Resolved  bool      `gorm:"default:false" json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ArticleComment) TableName() string { return "article_comments" }
