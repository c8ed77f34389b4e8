package models

import "time"

// ProjectInvitation is a time-boxed offer of membership keyed by email.
// Terminal states: accepted (AcceptedAt set), cancelled/declined (row
// deleted), expired (left in place, rejected at acceptance time).
type ProjectInvitation struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ProjectID  uint       `gorm:"index;not null" json:"project_id"`
	Project    *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Email      string     `gorm:"index;size:255;not null" json:"email"`
	Role       string     `gorm:"size:20;not null" json:"role"` // admin, editor, viewer; never owner
	InvitedBy  uint       `gorm:"not null" json:"invited_by"`
	Inviter    *User      `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
	Token      string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ProjectInvitation) TableName() string { return "project_invitations" }

// Pending reports whether the invitation is still actionable at t.
func (i *ProjectInvitation) Pending(t time.Time) bool {
	return i.AcceptedAt == nil && t.Before(i.ExpiresAt)
}
