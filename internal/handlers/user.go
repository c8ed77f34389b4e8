package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/middleware"
	"github.com/seoforge/backend/internal/models"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
	"gorm.io/gorm"
)

// UserHandler serves profile, usage and dashboard stat endpoints.
type UserHandler struct {
	db       *gorm.DB
	quota    *services.QuotaService
	projects *services.ProjectService
}

func NewUserHandler(db *gorm.DB, quota *services.QuotaService, projects *services.ProjectService) *UserHandler {
	return &UserHandler{db: db, quota: quota, projects: projects}
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

// Me returns the current user's profile
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, user.Public())
}

// UpdateProfile updates the current user's profile fields
// PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		response.NotFound(c, "user not found")
		return
	}

	user.FullName = strings.TrimSpace(req.FullName)
	if err := h.db.Save(&user).Error; err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, user.Public())
}

// Usage returns the current billing period's generation usage
// GET /api/users/me/usage
func (h *UserHandler) Usage(c *gin.Context) {
	userID := middleware.GetUserID(c)

	remaining, err := h.quota.Remaining(userID)
	if err != nil {
		fail(c, err)
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"usage_count": user.UsageCount,
		"usage_limit": user.UsageLimit,
		"remaining":   remaining,
	})
}

// Stats returns dashboard counters for the current user
// GET /api/users/me/stats
func (h *UserHandler) Stats(c *gin.Context) {
	userID := middleware.GetUserID(c)

	stats, err := h.projects.StatsForUser(userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, stats)
}
