package models

import "time"

// Membership roles, strictly ordered by privilege.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Membership statuses. Removal flips status to inactive; rows are never
// hard-deleted so activity history stays intact.
const (
	MemberActive   = "active"
	MemberInactive = "inactive"
)

var roleRank = map[string]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// ValidRole reports whether r is a known membership role.
func ValidRole(r string) bool {
	_, ok := roleRank[r]
	return ok
}

// RoleAtLeast reports whether role has privilege >= min in the
// owner > admin > editor > viewer hierarchy.
func RoleAtLeast(role, min string) bool {
	return roleRank[role] >= roleRank[min]
}

// TeamMember records that a user holds a role on a project. Exactly one
// active owner row exists per project; it is created at project creation and
// never through the invitation flow.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index:idx_member_project_user;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint      `gorm:"index:idx_member_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:20;default:viewer" json:"role"`   // owner, admin, editor, viewer
	Status    string    `gorm:"size:20;default:active" json:"status"` // active, inactive
	InvitedBy *uint     `json:"invited_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TeamMember) TableName() string { return "team_members" }
