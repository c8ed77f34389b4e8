package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/middleware"
	"github.com/seoforge/backend/internal/models"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
)

type BriefHandler struct {
	briefs *services.ContentBriefService
}

func NewBriefHandler(briefs *services.ContentBriefService) *BriefHandler {
	return &BriefHandler{briefs: briefs}
}

// Generate creates an AI-generated content brief
// POST /api/briefs/generate
func (h *BriefHandler) Generate(c *gin.Context) {
	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	brief, err := h.briefs.Generate(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, brief)
}

// Create stores a manually written brief
// POST /api/briefs
func (h *BriefHandler) Create(c *gin.Context) {
	var brief models.ContentBrief
	if err := c.ShouldBindJSON(&brief); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.briefs.Create(middleware.GetUserID(c), &brief)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, created)
}

// List returns the caller's briefs
// GET /api/briefs
func (h *BriefHandler) List(c *gin.Context) {
	briefs, err := h.briefs.ListForUser(middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, briefs)
}

// Update edits a brief
// PUT /api/briefs/:id
func (h *BriefHandler) Update(c *gin.Context) {
	briefID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var upd models.ContentBrief
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	brief, err := h.briefs.Update(middleware.GetUserID(c), briefID, &upd)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, brief)
}

// Delete removes a brief
// DELETE /api/briefs/:id
func (h *BriefHandler) Delete(c *gin.Context) {
	briefID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.briefs.Delete(middleware.GetUserID(c), briefID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "brief deleted"})
}
