package models

import "time"

// Activity actions written by the core services.
const (
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionDeleted     = "deleted"
	ActionInvited     = "invited"
	ActionJoined      = "joined"
	ActionDeclined    = "declined"
	ActionRemoved     = "removed"
	ActionRoleUpdated = "role_updated"
	ActionGenerated   = "generated"
)

// ActivityLog is an append-only audit record of a state-changing action on a
// project. Entries are written best-effort and never mutated or deleted by
// normal operation.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    uint      `gorm:"index;not null" json:"project_id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action       string    `gorm:"size:50;not null" json:"action"`
	ResourceType string    `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   *uint     `json:"resource_id,omitempty"`
	Metadata     string    `gorm:"type:text" json:"metadata,omitempty"` // JSON
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
