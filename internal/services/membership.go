package services

import (
	"errors"
	"fmt"

	"github.com/seoforge/backend/internal/models"
	"gorm.io/gorm"
)

// MembershipService is the authorization oracle: the set of
// (user, project, role, status) records and the rules for mutating them.
// Removal deactivates rows instead of deleting them so the activity log keeps
// referring to real memberships.
type MembershipService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewMembershipService(db *gorm.DB, activity *ActivityService) *MembershipService {
	return &MembershipService{db: db, activity: activity}
}

// ListActiveMembers returns the active members of a project ordered by join
// time, ties broken by row id.
func (s *MembershipService) ListActiveMembers(projectID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.db.Where("project_id = ? AND status = ?", projectID, models.MemberActive).
		Preload("User").
		Order("created_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// RoleOf returns the user's active role on the project, or "" when the user
// has no active membership. Callers must treat "" as no access.
func (s *MembershipService) RoleOf(userID, projectID uint) (string, error) {
	var member models.TeamMember
	err := s.db.Where("project_id = ? AND user_id = ? AND status = ?",
		projectID, userID, models.MemberActive).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// SetRole changes the role of an existing active member. Only owners and
// admins may change roles; the owner membership and the actor's own
// membership are off limits. Owner is never an assignable role.
func (s *MembershipService) SetRole(actorID, projectID, targetUserID uint, newRole string) (*models.TeamMember, error) {
	if !models.ValidRole(newRole) || newRole == models.RoleOwner {
		return nil, validationf("role must be admin, editor or viewer")
	}

	target, err := s.guardTeamMutation(actorID, projectID, targetUserID)
	if err != nil {
		return nil, err
	}

	oldRole := target.Role
	target.Role = newRole
	if err := s.db.Save(target).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, actorID, models.ActionRoleUpdated, "team_member", &targetUserID,
		map[string]interface{}{"old_role": oldRole, "new_role": newRole})

	return target, nil
}

// Deactivate removes a member from the project by flipping the membership to
// inactive. The row is retained for audit continuity.
func (s *MembershipService) Deactivate(actorID, projectID, targetUserID uint) error {
	target, err := s.guardTeamMutation(actorID, projectID, targetUserID)
	if err != nil {
		return err
	}

	target.Status = models.MemberInactive
	if err := s.db.Save(target).Error; err != nil {
		return err
	}

	s.activity.Record(projectID, actorID, models.ActionRemoved, "team_member", &targetUserID, nil)
	return nil
}

// guardTeamMutation enforces the shared rules for SetRole and Deactivate and
// returns the target's active membership.
func (s *MembershipService) guardTeamMutation(actorID, projectID, targetUserID uint) (*models.TeamMember, error) {
	if actorID == targetUserID {
		return nil, fmt.Errorf("%w: cannot modify your own membership", ErrDenied)
	}

	actorRole, err := s.RoleOf(actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !models.RoleAtLeast(actorRole, models.RoleAdmin) {
		return nil, fmt.Errorf("%w: only owners and admins may manage the team", ErrDenied)
	}

	var target models.TeamMember
	err = s.db.Where("project_id = ? AND user_id = ? AND status = ?",
		projectID, targetUserID, models.MemberActive).
		First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: team member", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if target.Role == models.RoleOwner {
		return nil, fmt.Errorf("%w: the owner's membership cannot be modified", ErrDenied)
	}

	return &target, nil
}
