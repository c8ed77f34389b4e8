package services

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/seoforge/backend/internal/models"
	"github.com/seoforge/backend/pkg/logger"
	"gorm.io/gorm"
)

// QuotaService is the per-user monthly ledger gating AI-assisted actions.
// The protocol is check, do, commit: callers call TryConsume before starting
// a generation and Consume only after it succeeds. A failed generation never
// spends quota.
type QuotaService struct {
	db   *gorm.DB
	cron *cron.Cron
}

func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{db: db}
}

// TryConsume is the read-only admission check. It never mutates the counter.
func (s *QuotaService) TryConsume(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}

	if user.UsageCount >= user.UsageLimit {
		return ErrQuotaExceeded
	}
	return nil
}

// Consume commits one unit of usage with an increment-in-place update. The
// usage_count < usage_limit predicate makes concurrent over-consumption lose
// the race instead of overshooting the limit.
func (s *QuotaService) Consume(userID uint) (*models.User, error) {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND usage_count < usage_limit", userID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the user is gone or the limit was hit between check and commit.
		var user models.User
		if err := s.db.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: user", ErrNotFound)
			}
			return nil, err
		}
		return nil, ErrQuotaExceeded
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Remaining returns how many generations the user has left this period.
func (s *QuotaService) Remaining(userID uint) (int, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: user", ErrNotFound)
		}
		return 0, err
	}

	remaining := user.UsageLimit - user.UsageCount
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// ResetAll zeroes every user's usage counter. Run at the start of each
// billing period.
func (s *QuotaService) ResetAll() (int64, error) {
	result := s.db.Model(&models.User{}).
		Where("usage_count > 0").
		UpdateColumn("usage_count", 0)
	return result.RowsAffected, result.Error
}

// StartResetScheduler runs ResetAll on the given cron spec
// (default "0 0 1 * *": midnight on the first of each month).
func (s *QuotaService) StartResetScheduler(spec string) error {
	if s.cron != nil {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		reset, err := s.ResetAll()
		if err != nil {
			logger.Errorf("[Quota] periodic reset failed: %v", err)
			return
		}
		logger.Infof("[Quota] billing period reset: %d users reset", reset)
	})
	if err != nil {
		return err
	}

	c.Start()
	s.cron = c
	return nil
}

// StopResetScheduler stops the periodic reset.
func (s *QuotaService) StopResetScheduler() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
