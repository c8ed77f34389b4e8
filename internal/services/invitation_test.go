package services

import (
	"errors"
	"testing"
	"time"

	"github.com/seoforge/backend/internal/models"
)

func TestInvite_ByOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "invitee@example.com", models.RoleEditor)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if inv.Role != models.RoleEditor {
		t.Errorf("expected editor role, got %q", inv.Role)
	}
	if inv.Token == "" {
		t.Error("expected a token")
	}
	if !inv.Pending(time.Now()) {
		t.Error("new invitation should be pending")
	}
	want := time.Now().AddDate(0, 0, 7)
	if inv.ExpiresAt.Before(want.Add(-time.Minute)) || inv.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("expected expiry about 7 days out, got %v", inv.ExpiresAt)
	}

	if !hasAction(env.activityActions(t, p.ID), models.ActionInvited) {
		t.Error("expected an invited activity entry")
	}
}

func TestInvite_EditorDenied(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	editor := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, editor, models.RoleEditor)

	_, err := env.invitations.Invite(editor.ID, p.ID, "invitee@example.com", models.RoleViewer)
	if !errors.Is(err, ErrDenied) {
		t.Errorf("expected ErrDenied, got %v", err)
	}
}

func TestInvite_BadInput(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	p := env.project(t, owner)

	if _, err := env.invitations.Invite(owner.ID, p.ID, "not-an-email", models.RoleEditor); !errors.Is(err, ErrValidation) {
		t.Errorf("bad email: expected ErrValidation, got %v", err)
	}
	if _, err := env.invitations.Invite(owner.ID, p.ID, "a@example.com", "superuser"); !errors.Is(err, ErrValidation) {
		t.Errorf("bad role: expected ErrValidation, got %v", err)
	}
	if _, err := env.invitations.Invite(owner.ID, p.ID, "a@example.com", models.RoleOwner); !errors.Is(err, ErrValidation) {
		t.Errorf("owner role: expected ErrValidation, got %v", err)
	}
}

func TestInvite_DuplicatePending(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	p := env.project(t, owner)

	if _, err := env.invitations.Invite(owner.ID, p.ID, "dup@example.com", models.RoleEditor); err != nil {
		t.Fatalf("first invite: %v", err)
	}
	_, err := env.invitations.Invite(owner.ID, p.ID, "dup@example.com", models.RoleViewer)
	if !errors.Is(err, ErrDuplicateInvite) {
		t.Errorf("expected ErrDuplicateInvite, got %v", err)
	}
}

func TestInvite_ExpiredDoesNotBlockNew(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "again@example.com", models.RoleEditor)
	if err != nil {
		t.Fatalf("first invite: %v", err)
	}
	env.db.Model(&models.ProjectInvitation{}).Where("id = ?", inv.ID).
		Update("expires_at", time.Now().Add(-time.Hour))

	if _, err := env.invitations.Invite(owner.ID, p.ID, "again@example.com", models.RoleEditor); err != nil {
		t.Errorf("expired invitation should not block a new one: %v", err)
	}
}

func TestInvite_ExistingMember(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	editor := env.user(t, "editor@example.com")
	p := env.project(t, owner)
	env.member(t, p.ID, editor, models.RoleEditor)

	_, err := env.invitations.Invite(owner.ID, p.ID, "editor@example.com", models.RoleViewer)
	if !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestAccept_CreatesMembership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	invitee := env.user(t, "joiner@example.com")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "joiner@example.com", models.RoleEditor)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	member, err := env.invitations.Accept(inv.ID, invitee.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if member.Role != models.RoleEditor {
		t.Errorf("membership role should come from the invitation, got %q", member.Role)
	}
	if member.Status != models.MemberActive {
		t.Errorf("expected active membership, got %q", member.Status)
	}
	if member.InvitedBy == nil || *member.InvitedBy != owner.ID {
		t.Error("membership should record the inviter")
	}

	var stored models.ProjectInvitation
	if err := env.db.First(&stored, inv.ID).Error; err != nil {
		t.Fatalf("reload invitation: %v", err)
	}
	if stored.AcceptedAt == nil {
		t.Error("invitation should be marked accepted")
	}
	if stored.Pending(time.Now()) {
		t.Error("accepted invitation should not be pending")
	}

	if !hasAction(env.activityActions(t, p.ID), models.ActionJoined) {
		t.Error("expected a joined activity entry")
	}
}

func TestAccept_Expired(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	invitee := env.user(t, "late@example.com")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "late@example.com", models.RoleViewer)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	env.db.Model(&models.ProjectInvitation{}).Where("id = ?", inv.ID).
		Update("expires_at", time.Now().Add(-time.Minute))

	_, err = env.invitations.Accept(inv.ID, invitee.ID)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}

	// No membership may be created on a failed accept.
	role, _ := env.members.RoleOf(invitee.ID, p.ID)
	if role != "" {
		t.Errorf("expired accept must not create a membership, got role %q", role)
	}
}

func TestAccept_WrongRecipient(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	other := env.user(t, "other@example.com")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "intended@example.com", models.RoleViewer)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	_, err = env.invitations.Accept(inv.ID, other.ID)
	if !errors.Is(err, ErrWrongRecipient) {
		t.Errorf("expected ErrWrongRecipient, got %v", err)
	}
}

func TestAccept_IdempotentUnderRetry(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	invitee := env.user(t, "retry@example.com")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "retry@example.com", models.RoleEditor)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	if _, err := env.invitations.Accept(inv.ID, invitee.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	_, err = env.invitations.Accept(inv.ID, invitee.ID)
	if !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("retried accept should return ErrAlreadyMember, got %v", err)
	}

	var count int64
	env.db.Model(&models.TeamMember{}).
		Where("project_id = ? AND user_id = ?", p.ID, invitee.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("retried accept must never create a second membership, got %d rows", count)
	}
}

func TestAccept_AlreadyMemberMarksAccepted(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	member := env.user(t, "member@example.com")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "member@example.com", models.RoleViewer)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	// The user joins through some other path before accepting.
	env.member(t, p.ID, member, models.RoleEditor)

	_, err = env.invitations.Accept(inv.ID, member.ID)
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	// The invitation is swept out of the pending set anyway.
	var stored models.ProjectInvitation
	env.db.First(&stored, inv.ID)
	if stored.AcceptedAt == nil {
		t.Error("invitation should be marked accepted so it stops showing as pending")
	}

	// The existing role is untouched.
	role, _ := env.members.RoleOf(member.ID, p.ID)
	if role != models.RoleEditor {
		t.Errorf("existing role should be preserved, got %q", role)
	}
}

func TestDecline_RemovesInvitation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	invitee := env.user(t, "nothanks@example.com")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "nothanks@example.com", models.RoleViewer)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	if err := env.invitations.Decline(inv.ID, invitee.ID); err != nil {
		t.Fatalf("Decline: %v", err)
	}

	var count int64
	env.db.Model(&models.ProjectInvitation{}).Where("id = ?", inv.ID).Count(&count)
	if count != 0 {
		t.Error("declined invitation should be deleted")
	}

	// The declined fact survives in the activity log.
	if !hasAction(env.activityActions(t, p.ID), models.ActionDeclined) {
		t.Error("expected a declined activity entry")
	}
}

func TestDecline_WrongRecipient(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	other := env.user(t, "someone@example.com")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "target@example.com", models.RoleViewer)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	err = env.invitations.Decline(inv.ID, other.ID)
	if !errors.Is(err, ErrWrongRecipient) {
		t.Errorf("expected ErrWrongRecipient, got %v", err)
	}
}

func TestCancel_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	viewer := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, viewer, models.RoleViewer)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "pending@example.com", models.RoleViewer)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	if err := env.invitations.Cancel(viewer.ID, inv.ID); !errors.Is(err, ErrDenied) {
		t.Errorf("viewer cancel: expected ErrDenied, got %v", err)
	}

	if err := env.invitations.Cancel(owner.ID, inv.ID); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	var count int64
	env.db.Model(&models.ProjectInvitation{}).Where("id = ?", inv.ID).Count(&count)
	if count != 0 {
		t.Error("cancelled invitation should be deleted")
	}
}

func TestListPending(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	p := env.project(t, owner)

	if _, err := env.invitations.Invite(owner.ID, p.ID, "one@example.com", models.RoleViewer); err != nil {
		t.Fatalf("Invite: %v", err)
	}
	expired, err := env.invitations.Invite(owner.ID, p.ID, "two@example.com", models.RoleViewer)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	env.db.Model(&models.ProjectInvitation{}).Where("id = ?", expired.ID).
		Update("expires_at", time.Now().Add(-time.Hour))

	pending, err := env.invitations.ListPendingForProject(p.ID)
	if err != nil {
		t.Fatalf("ListPendingForProject: %v", err)
	}
	if len(pending) != 1 || pending[0].Email != "one@example.com" {
		t.Errorf("expected only the unexpired invitation, got %d", len(pending))
	}

	mine, err := env.invitations.ListPendingForUser("one@example.com")
	if err != nil {
		t.Fatalf("ListPendingForUser: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected 1 pending invitation for the user, got %d", len(mine))
	}
}

// The whole collaboration path in one pass: invite, accept, then exercise the
// granted role against content operations.
func TestInvitationFlow_InviteToEdit(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	joiner := env.user(t, "joiner@example.com")
	p := env.project(t, owner)
	articles := NewArticleService(env.db, env.authz, env.activity)

	if _, err := env.invitations.Invite(owner.ID, p.ID, joiner.Email, models.RoleEditor); err != nil {
		t.Fatalf("Invite: %v", err)
	}

	mine, err := env.invitations.ListPendingForUser(joiner.Email)
	if err != nil {
		t.Fatalf("ListPendingForUser: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 pending invitation, got %d", len(mine))
	}

	// Before accepting, the invitee has no access at all.
	if got, _ := env.authz.CanView(joiner.ID, p.ID); got {
		t.Error("invitee should not see the project before accepting")
	}

	if _, err := env.invitations.Accept(mine[0].ID, joiner.ID); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	if got, err := env.authz.CanEdit(joiner.ID, p.ID); err != nil || !got {
		t.Errorf("CanEdit after accept = %v, %v; want true", got, err)
	}
	if got, _ := env.authz.CanManageTeam(joiner.ID, p.ID); got {
		t.Error("editor must not manage the team")
	}

	article, err := articles.Create(joiner.ID, p.ID, "Launch checklist", "draft")
	if err != nil {
		t.Fatalf("Create article as new editor: %v", err)
	}
	if article.ProjectID != p.ID {
		t.Errorf("article bound to project %d, want %d", article.ProjectID, p.ID)
	}
}
