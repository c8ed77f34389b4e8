package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seoforge/backend/internal/models"
	"gorm.io/gorm"
)

// CommentService manages article comments. Creating and resolving require
// edit rights on the article's project; editing content is author-only;
// deleting allows the author or a team manager.
type CommentService struct {
	db    *gorm.DB
	authz *AuthzService
}

func NewCommentService(db *gorm.DB, authz *AuthzService) *CommentService {
	return &CommentService{db: db, authz: authz}
}

// Create adds a comment to an article.
func (s *CommentService) Create(actorID, articleID uint, content, position string) (*models.ArticleComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validationf("comment content is required")
	}

	projectID, err := s.projectOf(articleID)
	if err != nil {
		return nil, err
	}

	ok, err := s.authz.CanEdit(actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: comment create", ErrDenied)
	}

	comment := models.ArticleComment{
		ArticleID: articleID,
		UserID:    actorID,
		Content:   content,
		Position:  position,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.db.Preload("User").First(&comment, comment.ID)
	return &comment, nil
}

// List returns an article's comments, oldest first. Requires view rights.
func (s *CommentService) List(actorID, articleID uint) ([]models.ArticleComment, error) {
	projectID, err := s.projectOf(articleID)
	if err != nil {
		return nil, err
	}

	ok, err := s.authz.CanView(actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: comment list", ErrDenied)
	}

	var comments []models.ArticleComment
	err = s.db.Where("article_id = ?", articleID).
		Preload("User").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Update replaces a comment's content. Only the author may edit their own
// words; resolution and deletion have their own, wider gates.
func (s *CommentService) Update(actorID, commentID uint, content string) (*models.ArticleComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validationf("comment content is required")
	}

	comment, _, err := s.loadWithProject(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actorID {
		return nil, fmt.Errorf("%w: comment update", ErrDenied)
	}

	if err := s.db.Model(comment).Update("content", content).Error; err != nil {
		return nil, err
	}

	s.db.Preload("User").First(comment, comment.ID)
	return comment, nil
}

// Resolve marks a comment resolved or unresolved.
func (s *CommentService) Resolve(actorID, commentID uint, resolved bool) error {
	comment, projectID, err := s.loadWithProject(commentID)
	if err != nil {
		return err
	}

	ok, err := s.authz.CanEdit(actorID, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: comment resolve", ErrDenied)
	}

	return s.db.Model(comment).Update("resolved", resolved).Error
}

// Delete removes a comment. Allowed for the author and team managers.
func (s *CommentService) Delete(actorID, commentID uint) error {
	comment, projectID, err := s.loadWithProject(commentID)
	if err != nil {
		return err
	}

	if comment.UserID != actorID {
		ok, err := s.authz.CanManageTeam(actorID, projectID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: comment delete", ErrDenied)
		}
	}

	return s.db.Delete(comment).Error
}

func (s *CommentService) projectOf(articleID uint) (uint, error) {
	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: article", ErrNotFound)
		}
		return 0, err
	}
	return article.ProjectID, nil
}

func (s *CommentService) loadWithProject(commentID uint) (*models.ArticleComment, uint, error) {
	var comment models.ArticleComment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("%w: comment", ErrNotFound)
		}
		return nil, 0, err
	}

	projectID, err := s.projectOf(comment.ArticleID)
	if err != nil {
		return nil, 0, err
	}
	return &comment, projectID, nil
}
