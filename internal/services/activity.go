package services

import (
	"encoding/json"
	"time"

	"github.com/seoforge/backend/internal/models"
	"github.com/seoforge/backend/pkg/logger"
	"gorm.io/gorm"
)

// ActivityService appends audit entries for state-changing project actions
// and serves the project history. Recording is best-effort: failures are
// logged and swallowed so they never roll back the triggering action.
type ActivityService struct {
	db    *gorm.DB
	queue ActivityQueue
}

// NewActivityService creates the service without a queue; call SetQueue once
// the queue exists (the queue's store function is this service's Write).
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

func (s *ActivityService) SetQueue(queue ActivityQueue) {
	s.queue = queue
}

// Record appends an entry for a completed action. Errors are swallowed.
func (s *ActivityService) Record(projectID, userID uint, action, resourceType string, resourceID *uint, metadata map[string]interface{}) {
	var metaStr string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaStr = string(b)
		}
	}

	task := &ActivityTask{
		ProjectID:    projectID,
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metaStr,
		CreatedAt:    time.Now(),
	}

	if s.queue == nil {
		if err := s.Write(task); err != nil {
			logger.Warnf("[Activity] failed to record %s/%s for project %d: %v",
				action, resourceType, projectID, err)
		}
		return
	}

	if err := s.queue.Enqueue(task); err != nil {
		logger.Warnf("[Activity] failed to record %s/%s for project %d: %v",
			action, resourceType, projectID, err)
	}
}

// Write persists a single entry. Used directly and as the queue's store
// function.
func (s *ActivityService) Write(task *ActivityTask) error {
	entry := models.ActivityLog{
		ProjectID:    task.ProjectID,
		UserID:       task.UserID,
		Action:       task.Action,
		ResourceType: task.ResourceType,
		ResourceID:   task.ResourceID,
		Metadata:     task.Metadata,
		CreatedAt:    task.CreatedAt,
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.db.Create(&entry).Error
}

// List returns a project's activity, most recent first.
func (s *ActivityService) List(projectID uint, limit, offset int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var entries []models.ActivityLog
	err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
