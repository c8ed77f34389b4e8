package services

import (
	"errors"
	"testing"

	"github.com/seoforge/backend/internal/models"
	"gorm.io/gorm"
)

func TestRoleOf_NoMembership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	outsider := env.user(t, "")
	p := env.project(t, owner)

	role, err := env.members.RoleOf(outsider.ID, p.ID)
	if err != nil {
		t.Fatalf("RoleOf: %v", err)
	}
	if role != "" {
		t.Errorf("expected empty role for non-member, got %q", role)
	}
}

func TestRoleOf_Owner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	p := env.project(t, owner)

	role, err := env.members.RoleOf(owner.ID, p.ID)
	if err != nil {
		t.Fatalf("RoleOf: %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("expected owner role, got %q", role)
	}
}

func TestSetRole_ByOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	target := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, target, models.RoleViewer)

	member, err := env.members.SetRole(owner.ID, p.ID, target.ID, models.RoleEditor)
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if member.Role != models.RoleEditor {
		t.Errorf("expected editor, got %q", member.Role)
	}

	if !hasAction(env.activityActions(t, p.ID), models.ActionRoleUpdated) {
		t.Error("expected a role_updated activity entry")
	}
}

func TestSetRole_EditorDenied(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	editor := env.user(t, "")
	target := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, editor, models.RoleEditor)
	env.member(t, p.ID, target, models.RoleViewer)

	_, err := env.members.SetRole(editor.ID, p.ID, target.ID, models.RoleEditor)
	if !errors.Is(err, ErrDenied) {
		t.Errorf("expected ErrDenied, got %v", err)
	}
}

func TestSetRole_SelfDenied(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	admin := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, admin, models.RoleAdmin)

	_, err := env.members.SetRole(admin.ID, p.ID, admin.ID, models.RoleViewer)
	if !errors.Is(err, ErrDenied) {
		t.Errorf("expected ErrDenied for self-modification, got %v", err)
	}
}

func TestSetRole_OwnerTargetDenied(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	admin := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, admin, models.RoleAdmin)

	_, err := env.members.SetRole(admin.ID, p.ID, owner.ID, models.RoleViewer)
	if !errors.Is(err, ErrDenied) {
		t.Errorf("expected ErrDenied for owner target, got %v", err)
	}
}

func TestSetRole_OwnerNotAssignable(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	target := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, target, models.RoleViewer)

	_, err := env.members.SetRole(owner.ID, p.ID, target.ID, models.RoleOwner)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for owner assignment, got %v", err)
	}
}

func TestDeactivate_RetainsRow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	target := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, target, models.RoleEditor)

	if err := env.members.Deactivate(owner.ID, p.ID, target.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	role, err := env.members.RoleOf(target.ID, p.ID)
	if err != nil {
		t.Fatalf("RoleOf: %v", err)
	}
	if role != "" {
		t.Errorf("deactivated member should have no role, got %q", role)
	}

	// The row must survive for audit continuity.
	var row models.TeamMember
	err = env.db.Where("project_id = ? AND user_id = ?", p.ID, target.ID).First(&row).Error
	if err != nil {
		t.Fatalf("membership row should still exist: %v", err)
	}
	if row.Status != models.MemberInactive {
		t.Errorf("expected inactive status, got %q", row.Status)
	}

	if !hasAction(env.activityActions(t, p.ID), models.ActionRemoved) {
		t.Error("expected a removed activity entry")
	}
}

func TestDeactivate_MissingTarget(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	outsider := env.user(t, "")
	p := env.project(t, owner)

	err := env.members.Deactivate(owner.ID, p.ID, outsider.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListActiveMembers_ExcludesInactive(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	active := env.user(t, "")
	removed := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, active, models.RoleEditor)
	env.member(t, p.ID, removed, models.RoleViewer)

	if err := env.members.Deactivate(owner.ID, p.ID, removed.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	members, err := env.members.ListActiveMembers(p.ID)
	if err != nil {
		t.Fatalf("ListActiveMembers: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 active members, got %d", len(members))
	}
	for _, m := range members {
		if m.UserID == removed.ID {
			t.Error("inactive member should not be listed")
		}
		if m.User == nil {
			t.Error("member should be returned with user preloaded")
		}
	}
	// Owner joined first.
	if members[0].Role != models.RoleOwner {
		t.Errorf("expected owner first, got %q", members[0].Role)
	}
}

func TestMembership_OneActiveRowPerProjectUser(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	member := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, member, models.RoleEditor)

	// A second active row for the same (project, user) violates the partial
	// unique index even when two accepts race past the role check.
	dup := models.TeamMember{
		ProjectID: p.ID,
		UserID:    member.ID,
		Role:      models.RoleViewer,
		Status:    models.MemberActive,
	}
	if err := env.db.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate active membership: expected ErrDuplicatedKey, got %v", err)
	}

	// Once the first row is deactivated, a fresh active row is allowed again.
	if err := env.members.Deactivate(owner.ID, p.ID, member.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	rejoined := models.TeamMember{
		ProjectID: p.ID,
		UserID:    member.ID,
		Role:      models.RoleViewer,
		Status:    models.MemberActive,
	}
	if err := env.db.Create(&rejoined).Error; err != nil {
		t.Errorf("re-adding after deactivation: %v", err)
	}
}
