package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seoforge/backend/internal/config"
	"github.com/seoforge/backend/internal/models"
	"github.com/seoforge/backend/internal/utils"
	"github.com/seoforge/backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRefresh     = errors.New("refresh token is invalid or expired")
)

// AuthService handles registration, login and refresh token rotation.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// TokenPair is what login and refresh hand back to the client. The refresh
// token is the raw secret; only its hash is stored.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// SignUp registers a new user on the free tier.
func (s *AuthService) SignUp(email, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, validationf("invalid email address")
	}
	if len(password) < 8 {
		return nil, validationf("password must be at least 8 characters")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:            email,
		Password:         hash,
		FullName:         strings.TrimSpace(fullName),
		SubscriptionTier: models.TierFree,
		UsageLimit:       s.cfg.Quota.FreeLimit,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	logger.Info().Uint("user_id", user.ID).Str("email", email).Msg("user registered")
	return &user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(email, password, clientIP, userAgent string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(&user, clientIP, userAgent)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	s.db.Model(&user).UpdateColumn("last_login", now)
	user.LastLogin = &now

	return &user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A revoked or expired token is rejected.
func (s *AuthService) Refresh(rawToken, clientIP, userAgent string) (*TokenPair, error) {
	hash := hashRefreshToken(rawToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !stored.Active(time.Now()) {
		return nil, ErrInvalidRefresh
	}

	var user models.User
	if err := s.db.First(&user, stored.UserID).Error; err != nil {
		return nil, ErrInvalidRefresh
	}

	pair, err := s.issueTokens(&user, clientIP, userAgent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var replacement models.RefreshToken
	if err := s.db.Where("token_hash = ?", hashRefreshToken(pair.RefreshToken)).First(&replacement).Error; err == nil {
		s.db.Model(&stored).Updates(map[string]interface{}{
			"revoked_at":           now,
			"replaced_by_token_id": replacement.ID,
		})
	} else {
		s.db.Model(&stored).UpdateColumn("revoked_at", now)
	}

	return pair, nil
}

// Logout revokes the presented refresh token. Unknown tokens are a no-op.
func (s *AuthService) Logout(rawToken string) error {
	now := time.Now()
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashRefreshToken(rawToken)).
		UpdateColumn("revoked_at", now).Error
}

func (s *AuthService) issueTokens(user *models.User, clientIP, userAgent string) (*TokenPair, error) {
	access, err := utils.GenerateToken(user.ID, user.Email, s.cfg.JWT.ExpireHour)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	refresh := hex.EncodeToString(raw)

	record := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   hashRefreshToken(refresh),
		ExpiresAt:   time.Now().Add(time.Duration(s.cfg.JWT.RefreshExpireHour) * time.Hour),
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.cfg.JWT.ExpireHour * 3600,
	}, nil
}

func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
