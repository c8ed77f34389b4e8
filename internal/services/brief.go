package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/seoforge/backend/internal/models"
	"github.com/seoforge/backend/pkg/logger"
	"gorm.io/gorm"
)

const briefSystemPrompt = `You are an SEO content strategist. Respond with a single valid JSON object and nothing else.`

// ContentBriefService manages per-user content briefs and the AI-assisted
// generation flow. Generation follows the quota protocol strictly:
// TryConsume, call the provider, Consume only on success.
type ContentBriefService struct {
	db        *gorm.DB
	quota     *QuotaService
	generator Generator
	authz     *AuthzService
	activity  *ActivityService
}

func NewContentBriefService(db *gorm.DB, quota *QuotaService, generator Generator, authz *AuthzService, activity *ActivityService) *ContentBriefService {
	return &ContentBriefService{db: db, quota: quota, generator: generator, authz: authz, activity: activity}
}

// GenerateRequest describes the brief the user wants.
type GenerateRequest struct {
	Topic          string `json:"topic" binding:"required"`
	TargetAudience string `json:"target_audience"`
	ToneStyle      string `json:"tone_style"`
	WordCount      string `json:"word_count"`
	ProjectID      *uint  `json:"project_id"`
}

// generatedBrief is the JSON shape the model is asked to return.
type generatedBrief struct {
	Title          string   `json:"title"`
	ContentOutline []string `json:"content_outline"`
	KeyPoints      []string `json:"key_points"`
	TargetKeywords []string `json:"target_keywords"`
	SEOTips        []string `json:"seo_tips"`
}

// Generate produces a brief via the generative provider. Quota is checked
// before the call and committed only after the provider succeeds and the
// response parses; a failed generation costs nothing.
func (s *ContentBriefService) Generate(ctx context.Context, userID uint, req *GenerateRequest) (*models.ContentBrief, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, validationf("topic is required")
	}

	if req.ProjectID != nil {
		ok, err := s.authz.CanEdit(userID, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: brief generation in project", ErrDenied)
		}
	}

	if err := s.quota.TryConsume(userID); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger.Info().
		Str("request_id", requestID).
		Uint("user_id", userID).
		Str("topic", req.Topic).
		Msg("brief generation started")

	prompt := buildBriefPrompt(req)
	raw, err := s.generator.Generate(ctx, briefSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	parsed, err := parseGeneratedBrief(raw)
	if err != nil {
		return nil, fmt.Errorf("generation returned unusable output: %w", err)
	}

	// The external call succeeded; commit the quota unit now.
	if _, err := s.quota.Consume(userID); err != nil {
		// Admission passed but the commit lost a concurrent race; surface it
		// rather than storing an uncharged brief.
		return nil, err
	}

	brief := models.ContentBrief{
		UserID:         userID,
		ProjectID:      req.ProjectID,
		Title:          parsed.Title,
		Topic:          req.Topic,
		TargetAudience: req.TargetAudience,
		ContentOutline: marshalList(parsed.ContentOutline),
		KeyPoints:      marshalList(parsed.KeyPoints),
		ToneStyle:      req.ToneStyle,
		WordCount:      req.WordCount,
		TargetKeywords: marshalList(parsed.TargetKeywords),
		SEOTips:        marshalList(parsed.SEOTips),
	}
	if brief.Title == "" {
		brief.Title = req.Topic
	}

	if err := s.db.Create(&brief).Error; err != nil {
		return nil, err
	}

	if req.ProjectID != nil {
		s.activity.Record(*req.ProjectID, userID, models.ActionGenerated, "content_brief", &brief.ID,
			map[string]interface{}{"title": brief.Title, "request_id": requestID})
	}

	return &brief, nil
}

// Create stores a manually-written brief. No quota involved.
func (s *ContentBriefService) Create(userID uint, brief *models.ContentBrief) (*models.ContentBrief, error) {
	if strings.TrimSpace(brief.Title) == "" {
		return nil, validationf("title is required")
	}

	if brief.ProjectID != nil {
		ok, err := s.authz.CanEdit(userID, *brief.ProjectID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: brief create in project", ErrDenied)
		}
	}

	brief.ID = 0
	brief.UserID = userID
	if err := s.db.Create(brief).Error; err != nil {
		return nil, err
	}

	if brief.ProjectID != nil {
		s.activity.Record(*brief.ProjectID, userID, models.ActionCreated, "content_brief", &brief.ID,
			map[string]interface{}{"title": brief.Title})
	}

	return brief, nil
}

// ListForUser returns the user's briefs, most recently updated first.
func (s *ContentBriefService) ListForUser(userID uint) ([]models.ContentBrief, error) {
	var briefs []models.ContentBrief
	err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&briefs).Error
	if err != nil {
		return nil, err
	}
	return briefs, nil
}

// Update applies changes to a brief owned by userID.
func (s *ContentBriefService) Update(userID, briefID uint, upd *models.ContentBrief) (*models.ContentBrief, error) {
	brief, err := s.loadOwned(userID, briefID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(upd.Title) != "" {
		brief.Title = strings.TrimSpace(upd.Title)
	}
	if upd.Topic != "" {
		brief.Topic = upd.Topic
	}
	if upd.TargetAudience != "" {
		brief.TargetAudience = upd.TargetAudience
	}
	if upd.ContentOutline != "" {
		brief.ContentOutline = upd.ContentOutline
	}
	if upd.KeyPoints != "" {
		brief.KeyPoints = upd.KeyPoints
	}
	if upd.ToneStyle != "" {
		brief.ToneStyle = upd.ToneStyle
	}
	if upd.WordCount != "" {
		brief.WordCount = upd.WordCount
	}
	if upd.TargetKeywords != "" {
		brief.TargetKeywords = upd.TargetKeywords
	}
	if upd.SEOTips != "" {
		brief.SEOTips = upd.SEOTips
	}

	if err := s.db.Save(brief).Error; err != nil {
		return nil, err
	}
	return brief, nil
}

// Delete removes a brief owned by userID.
func (s *ContentBriefService) Delete(userID, briefID uint) error {
	brief, err := s.loadOwned(userID, briefID)
	if err != nil {
		return err
	}
	return s.db.Delete(brief).Error
}

func (s *ContentBriefService) loadOwned(userID, briefID uint) (*models.ContentBrief, error) {
	var brief models.ContentBrief
	if err := s.db.First(&brief, briefID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: content brief", ErrNotFound)
		}
		return nil, err
	}
	if brief.UserID != userID {
		return nil, fmt.Errorf("%w: content brief", ErrDenied)
	}
	return &brief, nil
}

func buildBriefPrompt(req *GenerateRequest) string {
	var b strings.Builder
	b.WriteString("Create a detailed content brief for: ")
	b.WriteString(req.Topic)
	b.WriteString("\n")
	if req.TargetAudience != "" {
		b.WriteString("Target audience: " + req.TargetAudience + "\n")
	}
	if req.ToneStyle != "" {
		b.WriteString("Tone and style: " + req.ToneStyle + "\n")
	}
	if req.WordCount != "" {
		b.WriteString("Target word count: " + req.WordCount + "\n")
	}
	b.WriteString(`Return a JSON object with fields "title" (string), "content_outline" (array of section headings), "key_points" (array), "target_keywords" (array) and "seo_tips" (array).`)
	return b.String()
}

// parseGeneratedBrief tolerates markdown code fences around the JSON body.
func parseGeneratedBrief(raw string) (*generatedBrief, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var parsed generatedBrief
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, err
	}
	if len(parsed.ContentOutline) == 0 {
		return nil, errors.New("missing content outline")
	}
	return &parsed, nil
}

func marshalList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}
