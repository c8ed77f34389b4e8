package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/seoforge/backend/internal/models"
	"github.com/seoforge/backend/pkg/logger"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// InvitationService turns email addresses into memberships. Invitations are
// time-boxed; expiry is enforced at acceptance time, never by background
// deletion. Acceptance is idempotent under retry.
type InvitationService struct {
	db         *gorm.DB
	members    *MembershipService
	activity   *ActivityService
	expireDays int
}

func NewInvitationService(db *gorm.DB, members *MembershipService, activity *ActivityService, expireDays int) *InvitationService {
	if expireDays <= 0 {
		expireDays = 7
	}
	return &InvitationService{db: db, members: members, activity: activity, expireDays: expireDays}
}

// Invite creates a pending invitation for email with the offered role.
// Only owners and admins may invite; owner is never an offerable role; at
// most one unaccepted, unexpired invitation may exist per (project, email).
func (s *InvitationService) Invite(actorID, projectID uint, email, role string) (*models.ProjectInvitation, error) {
	if !emailPattern.MatchString(email) {
		return nil, validationf("invalid email address")
	}
	if !models.ValidRole(role) || role == models.RoleOwner {
		return nil, validationf("role must be admin, editor or viewer")
	}

	actorRole, err := s.members.RoleOf(actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !models.RoleAtLeast(actorRole, models.RoleAdmin) {
		return nil, fmt.Errorf("%w: only owners and admins may invite", ErrDenied)
	}

	// A stray expired or accepted invitation does not block a new one.
	var existing models.ProjectInvitation
	err = s.db.Where("project_id = ? AND email = ? AND accepted_at IS NULL AND expires_at > ?",
		projectID, email, time.Now()).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateInvite
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// If the address already belongs to an active member, inviting is moot.
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err == nil {
		role, err := s.members.RoleOf(user.ID, projectID)
		if err != nil {
			return nil, err
		}
		if role != "" {
			return nil, ErrAlreadyMember
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	invitation := models.ProjectInvitation{
		ProjectID: projectID,
		Email:     email,
		Role:      role,
		InvitedBy: actorID,
		Token:     token,
		ExpiresAt: time.Now().AddDate(0, 0, s.expireDays),
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, actorID, models.ActionInvited, "team_member", nil,
		map[string]interface{}{"email": email, "role": role})

	return &invitation, nil
}

// Accept resolves an invitation into an active membership for the accepting
// user. Expiry and recipient checks happen here; an invitation whose user is
// already a member is marked accepted anyway so it stops showing as pending,
// which also makes retried accepts land on AlreadyMember instead of creating
// a second membership.
func (s *InvitationService) Accept(invitationID, userID uint) (*models.TeamMember, error) {
	var invitation models.ProjectInvitation
	if err := s.db.First(&invitation, invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invitation", ErrNotFound)
		}
		return nil, err
	}

	if time.Now().After(invitation.ExpiresAt) {
		return nil, ErrExpired
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	if user.Email != invitation.Email {
		return nil, ErrWrongRecipient
	}

	existingRole, err := s.members.RoleOf(userID, invitation.ProjectID)
	if err != nil {
		return nil, err
	}
	if existingRole != "" {
		if invitation.AcceptedAt == nil {
			now := time.Now()
			invitation.AcceptedAt = &now
			if err := s.db.Save(&invitation).Error; err != nil {
				logger.Warnf("[Invitation] marking invitation %d accepted for existing member: %v", invitation.ID, err)
			}
		}
		return nil, ErrAlreadyMember
	}

	var member models.TeamMember
	err = s.db.Transaction(func(tx *gorm.DB) error {
		member = models.TeamMember{
			ProjectID: invitation.ProjectID,
			UserID:    userID,
			Role:      invitation.Role,
			Status:    models.MemberActive,
			InvitedBy: &invitation.InvitedBy,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&models.ProjectInvitation{}).
			Where("id = ?", invitation.ID).
			Update("accepted_at", now).Error
	})
	if err != nil {
		// A concurrent accept of the same invitation loses to the partial
		// unique index on active memberships.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	s.activity.Record(invitation.ProjectID, userID, models.ActionJoined, "team_member", &userID,
		map[string]interface{}{"role": invitation.Role, "email": user.Email})

	return &member, nil
}

// Decline removes a pending invitation after verifying it is addressed to the
// declining user. The declined fact is written to the activity log before the
// row is deleted so audit history survives.
func (s *InvitationService) Decline(invitationID, userID uint) error {
	var invitation models.ProjectInvitation
	if err := s.db.First(&invitation, invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invitation", ErrNotFound)
		}
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}
	if user.Email != invitation.Email {
		return ErrWrongRecipient
	}

	s.activity.Record(invitation.ProjectID, userID, models.ActionDeclined, "team_member", nil,
		map[string]interface{}{"email": invitation.Email})

	return s.db.Delete(&invitation).Error
}

// Cancel withdraws a pending invitation. Requires team management rights on
// the invitation's project.
func (s *InvitationService) Cancel(actorID, invitationID uint) error {
	var invitation models.ProjectInvitation
	if err := s.db.First(&invitation, invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invitation", ErrNotFound)
		}
		return err
	}

	actorRole, err := s.members.RoleOf(actorID, invitation.ProjectID)
	if err != nil {
		return err
	}
	if !models.RoleAtLeast(actorRole, models.RoleAdmin) {
		return fmt.Errorf("%w: only owners and admins may cancel invitations", ErrDenied)
	}

	return s.db.Delete(&invitation).Error
}

// ListPendingForProject returns the project's unaccepted, unexpired
// invitations, newest first.
func (s *InvitationService) ListPendingForProject(projectID uint) ([]models.ProjectInvitation, error) {
	var invitations []models.ProjectInvitation
	err := s.db.Where("project_id = ? AND accepted_at IS NULL AND expires_at > ?",
		projectID, time.Now()).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// ListPendingForUser returns pending invitations addressed to an email,
// newest first, with project and inviter context for display.
func (s *InvitationService) ListPendingForUser(email string) ([]models.ProjectInvitation, error) {
	var invitations []models.ProjectInvitation
	err := s.db.Where("email = ? AND accepted_at IS NULL AND expires_at > ?",
		email, time.Now()).
		Preload("Project").
		Preload("Inviter").
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// generateInviteToken returns 32 random bytes hex-encoded.
func generateInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
