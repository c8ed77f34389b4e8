package models

import (
	"time"

	"gorm.io/gorm"
)

// Project is a content workspace. The creating user becomes the owner member;
// all other access flows through TeamMember rows.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`
	Title       string         `gorm:"size:100;not null" json:"title"`
	Description string         `gorm:"size:500" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
