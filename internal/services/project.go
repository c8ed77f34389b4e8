package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seoforge/backend/internal/models"
	"gorm.io/gorm"
)

// ProjectService manages workspaces. Creating a project also creates the
// single owner membership; deleting one soft-deletes the project, withdraws
// pending invitations and retains memberships and activity for audit.
type ProjectService struct {
	db       *gorm.DB
	members  *MembershipService
	authz    *AuthzService
	activity *ActivityService
}

func NewProjectService(db *gorm.DB, members *MembershipService, authz *AuthzService, activity *ActivityService) *ProjectService {
	return &ProjectService{db: db, members: members, authz: authz, activity: activity}
}

func validateProjectFields(title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return validationf("title is required")
	}
	if len(title) > 100 {
		return validationf("title must be at most 100 characters")
	}
	if len(description) > 500 {
		return validationf("description must be at most 500 characters")
	}
	return nil
}

// Create makes a new project owned by userID, with the owner membership
// created in the same transaction.
func (s *ProjectService) Create(userID uint, title, description string) (*models.Project, error) {
	if err := validateProjectFields(title, description); err != nil {
		return nil, err
	}

	project := models.Project{
		OwnerID:     userID,
		Title:       strings.TrimSpace(title),
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		owner := models.TeamMember{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      models.RoleOwner,
			Status:    models.MemberActive,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(project.ID, userID, models.ActionCreated, "project", &project.ID,
		map[string]interface{}{"title": project.Title})

	return &project, nil
}

// ListForUser returns the projects the user has an active membership on,
// newest first.
func (s *ProjectService) ListForUser(userID uint) ([]models.Project, error) {
	var memberships []models.TeamMember
	err := s.db.Where("user_id = ? AND status = ?", userID, models.MemberActive).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	if len(memberships) == 0 {
		return []models.Project{}, nil
	}

	ids := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.ProjectID)
	}

	var projects []models.Project
	err = s.db.Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Get returns a project if the actor may view it.
func (s *ProjectService) Get(actorID, projectID uint) (*models.Project, error) {
	ok, err := s.authz.CanView(actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: project access", ErrDenied)
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project", ErrNotFound)
		}
		return nil, err
	}
	return &project, nil
}

// Update changes a project's title/description. Requires edit rights.
func (s *ProjectService) Update(actorID, projectID uint, title, description string) (*models.Project, error) {
	ok, err := s.authz.CanEdit(actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: project update", ErrDenied)
	}

	if err := validateProjectFields(title, description); err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project", ErrNotFound)
		}
		return nil, err
	}

	project.Title = strings.TrimSpace(title)
	project.Description = description
	if err := s.db.Save(&project).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, actorID, models.ActionUpdated, "project", &projectID,
		map[string]interface{}{"title": project.Title})

	return &project, nil
}

// Delete soft-deletes a project. Only the owner may delete. Pending
// invitations are withdrawn; memberships and activity entries stay for audit.
func (s *ProjectService) Delete(actorID, projectID uint) error {
	role, err := s.members.RoleOf(actorID, projectID)
	if err != nil {
		return err
	}
	if role != models.RoleOwner {
		return fmt.Errorf("%w: only the owner may delete a project", ErrDenied)
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: project", ErrNotFound)
		}
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND accepted_at IS NULL", projectID).
			Delete(&models.ProjectInvitation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return err
	}

	s.activity.Record(projectID, actorID, models.ActionDeleted, "project", &projectID,
		map[string]interface{}{"title": project.Title})

	return nil
}

// UserStats aggregates dashboard numbers for a user.
type UserStats struct {
	TotalProjects int   `json:"total_projects"`
	TotalArticles int64 `json:"total_articles"`
	TotalBriefs   int64 `json:"total_briefs"`
	UsageCount    int   `json:"usage_count"`
	UsageLimit    int   `json:"usage_limit"`
}

// StatsForUser counts the user's projects, articles across those projects,
// content briefs and quota usage.
func (s *ProjectService) StatsForUser(userID uint) (*UserStats, error) {
	projects, err := s.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{TotalProjects: len(projects)}

	if len(projects) > 0 {
		ids := make([]uint, 0, len(projects))
		for _, p := range projects {
			ids = append(ids, p.ID)
		}
		if err := s.db.Model(&models.Article{}).
			Where("project_id IN ?", ids).
			Count(&stats.TotalArticles).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&models.ContentBrief{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalBriefs).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	stats.UsageCount = user.UsageCount
	stats.UsageLimit = user.UsageLimit

	return stats, nil
}
