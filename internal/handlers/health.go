package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/pkg/response"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports service and database health
// GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	response.Success(c, gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}
