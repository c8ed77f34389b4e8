package services

import (
	"testing"
	"time"

	"github.com/seoforge/backend/internal/models"
)

func TestActivityList_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "")
	p := env.project(t, u)

	base := time.Now().Add(-time.Hour)
	for i, action := range []string{models.ActionUpdated, models.ActionInvited, models.ActionJoined} {
		err := env.activity.Write(&ActivityTask{
			ProjectID:    p.ID,
			UserID:       u.ID,
			Action:       action,
			ResourceType: "project",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	entries, err := env.activity.List(p.ID, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// 3 written here plus the created entry from project creation.
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.After(entries[i-1].CreatedAt) {
			t.Fatal("entries should be ordered newest first")
		}
	}
}

func TestActivityList_LimitClamped(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "")
	p := env.project(t, u)

	for i := 0; i < 60; i++ {
		err := env.activity.Write(&ActivityTask{
			ProjectID:    p.ID,
			UserID:       u.ID,
			Action:       models.ActionUpdated,
			ResourceType: "project",
		})
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	entries, err := env.activity.List(p.ID, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 50 {
		t.Errorf("expected default page size 50, got %d", len(entries))
	}

	entries, err = env.activity.List(p.ID, 1000, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 50 {
		t.Errorf("oversized limit should clamp to 50, got %d", len(entries))
	}
}

func TestActivityRecord_BestEffort(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "")
	p := env.project(t, u)

	// A queue that always fails must not propagate.
	env.activity.SetQueue(NewLocalActivityQueue(nil))
	env.activity.Record(p.ID, u.ID, models.ActionUpdated, "project", nil, nil)

	env.activity.SetQueue(NewLocalActivityQueue(env.activity.Write))
	entries, err := env.activity.List(p.ID, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// Only the created entry from project creation.
	if len(entries) != 1 {
		t.Errorf("dropped entry should not be persisted, got %d entries", len(entries))
	}
}
