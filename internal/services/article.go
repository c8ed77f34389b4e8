package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seoforge/backend/internal/models"
	"gorm.io/gorm"
)

// ArticleService manages content items. Every write is authorized against
// the membership ledger before any mutation happens.
type ArticleService struct {
	db       *gorm.DB
	authz    *AuthzService
	activity *ActivityService
}

func NewArticleService(db *gorm.DB, authz *AuthzService, activity *ActivityService) *ArticleService {
	return &ArticleService{db: db, authz: authz, activity: activity}
}

// ArticleUpdate carries the mutable article fields; nil means unchanged.
type ArticleUpdate struct {
	Title           *string  `json:"title"`
	Content         *string  `json:"content"`
	SEOScore        *float64 `json:"seo_score"`
	Keywords        *string  `json:"keywords"`
	MetaDescription *string  `json:"meta_description"`
}

// Create adds an article to a project. Requires edit rights.
func (s *ArticleService) Create(actorID, projectID uint, title, content string) (*models.Article, error) {
	ok, err := s.authz.CanEdit(actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: article create", ErrDenied)
	}

	if strings.TrimSpace(title) == "" {
		return nil, validationf("title is required")
	}

	article := models.Article{
		ProjectID: projectID,
		Title:     strings.TrimSpace(title),
		Content:   content,
	}
	if err := s.db.Create(&article).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, actorID, models.ActionCreated, "article", &article.ID,
		map[string]interface{}{"title": article.Title})

	return &article, nil
}

// List returns a project's articles, most recently updated first. Requires
// view rights.
func (s *ArticleService) List(actorID, projectID uint) ([]models.Article, error) {
	ok, err := s.authz.CanView(actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: article list", ErrDenied)
	}

	var articles []models.Article
	err = s.db.Where("project_id = ?", projectID).
		Order("updated_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// Get returns an article if the actor may view its project.
func (s *ArticleService) Get(actorID, articleID uint) (*models.Article, error) {
	article, err := s.load(articleID)
	if err != nil {
		return nil, err
	}

	ok, err := s.authz.CanView(actorID, article.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: article access", ErrDenied)
	}
	return article, nil
}

// Update applies the non-nil fields of upd. Requires edit rights on the
// article's project.
func (s *ArticleService) Update(actorID, articleID uint, upd *ArticleUpdate) (*models.Article, error) {
	article, err := s.load(articleID)
	if err != nil {
		return nil, err
	}

	ok, err := s.authz.CanEdit(actorID, article.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: article update", ErrDenied)
	}

	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, validationf("title is required")
		}
		article.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Content != nil {
		article.Content = *upd.Content
	}
	if upd.SEOScore != nil {
		article.SEOScore = upd.SEOScore
	}
	if upd.Keywords != nil {
		article.Keywords = *upd.Keywords
	}
	if upd.MetaDescription != nil {
		article.MetaDescription = *upd.MetaDescription
	}

	if err := s.db.Save(article).Error; err != nil {
		return nil, err
	}

	s.activity.Record(article.ProjectID, actorID, models.ActionUpdated, "article", &article.ID,
		map[string]interface{}{"title": article.Title})

	return article, nil
}

// Delete soft-deletes an article. Requires edit rights.
func (s *ArticleService) Delete(actorID, articleID uint) error {
	article, err := s.load(articleID)
	if err != nil {
		return err
	}

	ok, err := s.authz.CanEdit(actorID, article.ProjectID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: article delete", ErrDenied)
	}

	if err := s.db.Delete(article).Error; err != nil {
		return err
	}

	s.activity.Record(article.ProjectID, actorID, models.ActionDeleted, "article", &article.ID,
		map[string]interface{}{"title": article.Title})

	return nil
}

func (s *ArticleService) load(articleID uint) (*models.Article, error) {
	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article", ErrNotFound)
		}
		return nil, err
	}
	return &article, nil
}
