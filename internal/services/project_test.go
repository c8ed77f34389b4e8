package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/seoforge/backend/internal/models"
)

func TestProjectCreate_OwnerMembership(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "")

	p, err := env.projects.Create(u.ID, "My Project", "about things")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.OwnerID != u.ID {
		t.Errorf("expected owner %d, got %d", u.ID, p.OwnerID)
	}

	role, err := env.members.RoleOf(u.ID, p.ID)
	if err != nil {
		t.Fatalf("RoleOf: %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("creator should hold the owner role, got %q", role)
	}

	if !hasAction(env.activityActions(t, p.ID), models.ActionCreated) {
		t.Error("expected a created activity entry")
	}
}

func TestProjectCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "")

	if _, err := env.projects.Create(u.ID, "   ", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("blank title: expected ErrValidation, got %v", err)
	}
	if _, err := env.projects.Create(u.ID, strings.Repeat("x", 101), ""); !errors.Is(err, ErrValidation) {
		t.Errorf("long title: expected ErrValidation, got %v", err)
	}
	if _, err := env.projects.Create(u.ID, "ok", strings.Repeat("x", 501)); !errors.Is(err, ErrValidation) {
		t.Errorf("long description: expected ErrValidation, got %v", err)
	}
}

func TestProjectListForUser(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "")
	b := env.user(t, "")

	mine := env.project(t, a)
	theirs := env.project(t, b)
	env.member(t, theirs.ID, a, models.RoleViewer)
	env.project(t, b) // a is not a member of this one

	projects, err := env.projects.ListForUser(a.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	found := map[uint]bool{}
	for _, p := range projects {
		found[p.ID] = true
	}
	if !found[mine.ID] || !found[theirs.ID] {
		t.Error("membership-derived project list is wrong")
	}
}

func TestProjectGet_DeniedForNonMember(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	outsider := env.user(t, "")
	p := env.project(t, owner)

	_, err := env.projects.Get(outsider.ID, p.ID)
	if !errors.Is(err, ErrDenied) {
		t.Errorf("expected ErrDenied, got %v", err)
	}
}

func TestProjectUpdate_Permissions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	editor := env.user(t, "")
	viewer := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, editor, models.RoleEditor)
	env.member(t, p.ID, viewer, models.RoleViewer)

	updated, err := env.projects.Update(editor.ID, p.ID, "Renamed", "new description")
	if err != nil {
		t.Fatalf("editor update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("expected renamed title, got %q", updated.Title)
	}

	if _, err := env.projects.Update(viewer.ID, p.ID, "Nope", ""); !errors.Is(err, ErrDenied) {
		t.Errorf("viewer update: expected ErrDenied, got %v", err)
	}
}

func TestProjectDelete_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	admin := env.user(t, "")
	p := env.project(t, owner)
	env.member(t, p.ID, admin, models.RoleAdmin)

	if err := env.projects.Delete(admin.ID, p.ID); !errors.Is(err, ErrDenied) {
		t.Errorf("admin delete: expected ErrDenied, got %v", err)
	}
	// A refused delete must not leave a deletion entry in the audit log.
	if hasAction(env.activityActions(t, p.ID), models.ActionDeleted) {
		t.Error("denied delete should record no activity")
	}
	if err := env.projects.Delete(owner.ID, p.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if !hasAction(env.activityActions(t, p.ID), models.ActionDeleted) {
		t.Error("successful delete should record activity")
	}
}

func TestProjectDelete_Cascade(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "")
	p := env.project(t, owner)

	inv, err := env.invitations.Invite(owner.ID, p.ID, "pending@example.com", models.RoleViewer)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	if err := env.projects.Delete(owner.ID, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Soft delete: the project disappears from reads.
	var count int64
	env.db.Model(&models.Project{}).Where("id = ?", p.ID).Count(&count)
	if count != 0 {
		t.Error("deleted project should be hidden from reads")
	}
	env.db.Unscoped().Model(&models.Project{}).Where("id = ?", p.ID).Count(&count)
	if count != 1 {
		t.Error("deleted project row should be retained")
	}

	// Pending invitations are withdrawn.
	env.db.Model(&models.ProjectInvitation{}).Where("id = ?", inv.ID).Count(&count)
	if count != 0 {
		t.Error("pending invitations should be withdrawn on delete")
	}

	// Memberships and activity stay for audit.
	env.db.Model(&models.TeamMember{}).Where("project_id = ?", p.ID).Count(&count)
	if count != 1 {
		t.Error("memberships should be retained on delete")
	}
	if !hasAction(env.activityActions(t, p.ID), models.ActionDeleted) {
		t.Error("expected a deleted activity entry")
	}
}

func TestStatsForUser(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "")
	p := env.project(t, u)

	articles := NewArticleService(env.db, env.authz, env.activity)
	if _, err := articles.Create(u.ID, p.ID, "Post", "body"); err != nil {
		t.Fatalf("create article: %v", err)
	}
	if _, err := env.quota.Consume(u.ID); err != nil {
		t.Fatalf("consume quota: %v", err)
	}

	stats, err := env.projects.StatsForUser(u.ID)
	if err != nil {
		t.Fatalf("StatsForUser: %v", err)
	}
	if stats.TotalProjects != 1 {
		t.Errorf("expected 1 project, got %d", stats.TotalProjects)
	}
	if stats.TotalArticles != 1 {
		t.Errorf("expected 1 article, got %d", stats.TotalArticles)
	}
	if stats.UsageCount != 1 || stats.UsageLimit != 10 {
		t.Errorf("expected usage 1/10, got %d/%d", stats.UsageCount, stats.UsageLimit)
	}
}
