package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription tiers.
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// User represents an account. UsageCount/UsageLimit form the per-user monthly
// AI-generation quota; UsageCount is mutated only through the quota service.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Email            string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password         string         `gorm:"size:255" json:"-"` // bcrypt hash
	FullName         string         `gorm:"size:100" json:"full_name"`
	SubscriptionTier string         `gorm:"size:20;default:free" json:"subscription_tier"` // free, pro, enterprise
	UsageCount       int            `gorm:"default:0" json:"usage_count"`
	UsageLimit       int            `gorm:"default:10" json:"usage_limit"`
	LastLogin        *time.Time     `json:"last_login"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// PublicUser is the embeddable subset of User safe to return alongside
// memberships, comments and activity entries.
type PublicUser struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
