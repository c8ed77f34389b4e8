package services

import (
	"fmt"
	"testing"

	"github.com/seoforge/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the full service graph against an in-memory database with the
// inline activity recorder, so every test sees deterministic audit writes.
type testEnv struct {
	db          *gorm.DB
	activity    *ActivityService
	members     *MembershipService
	authz       *AuthzService
	invitations *InvitationService
	projects    *ProjectService
	quota       *QuotaService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	activity := NewActivityService(db)
	activity.SetQueue(NewLocalActivityQueue(activity.Write))
	members := NewMembershipService(db, activity)
	authz := NewAuthzService(members)

	return &testEnv{
		db:          db,
		activity:    activity,
		members:     members,
		authz:       authz,
		invitations: NewInvitationService(db, members, activity, 7),
		projects:    NewProjectService(db, members, authz, activity),
		quota:       NewQuotaService(db),
	}
}

var userSeq int

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	if email == "" {
		userSeq++
		email = fmt.Sprintf("user%d@example.com", userSeq)
	}
	u := &models.User{
		Email:            email,
		Password:         "irrelevant",
		SubscriptionTier: models.TierFree,
		UsageLimit:       10,
	}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// project creates a project owned by owner and returns it.
func (e *testEnv) project(t *testing.T, owner *models.User) *models.Project {
	t.Helper()
	p, err := e.projects.Create(owner.ID, "Test Project", "")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

// member adds an active membership directly, bypassing the invitation flow.
func (e *testEnv) member(t *testing.T, projectID uint, user *models.User, role string) {
	t.Helper()
	m := models.TeamMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      role,
		Status:    models.MemberActive,
	}
	if err := e.db.Create(&m).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
}

func (e *testEnv) activityActions(t *testing.T, projectID uint) []string {
	t.Helper()
	entries, err := e.activity.List(projectID, 100, 0)
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	actions := make([]string, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

func hasAction(actions []string, want string) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
