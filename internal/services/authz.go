package services

import "github.com/seoforge/backend/internal/models"

// AuthzService is the single enforcement point other services consult before
// performing a sensitive action. Its predicates are pure reads over the
// membership ledger; a role decision is never cached beyond one call.
type AuthzService struct {
	members *MembershipService
}

func NewAuthzService(members *MembershipService) *AuthzService {
	return &AuthzService{members: members}
}

// CanView reports whether the user has any active role on the project.
func (s *AuthzService) CanView(userID, projectID uint) (bool, error) {
	role, err := s.members.RoleOf(userID, projectID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

// CanEdit reports whether the user may mutate project content
// (owner, admin or editor).
func (s *AuthzService) CanEdit(userID, projectID uint) (bool, error) {
	role, err := s.members.RoleOf(userID, projectID)
	if err != nil {
		return false, err
	}
	return role != "" && models.RoleAtLeast(role, models.RoleEditor), nil
}

// CanManageTeam reports whether the user may invite, remove or re-role
// members (owner or admin).
func (s *AuthzService) CanManageTeam(userID, projectID uint) (bool, error) {
	role, err := s.members.RoleOf(userID, projectID)
	if err != nil {
		return false, err
	}
	return role != "" && models.RoleAtLeast(role, models.RoleAdmin), nil
}
