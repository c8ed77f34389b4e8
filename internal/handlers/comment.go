package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/middleware"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	Position string `json:"position"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type ResolveCommentRequest struct {
	Resolved bool `json:"resolved"`
}

// Create adds a comment to an article
// POST /api/articles/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Create(middleware.GetUserID(c), articleID, req.Content, req.Position)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, comment)
}

// List returns an article's comments, oldest first
// GET /api/articles/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	articleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.comments.List(middleware.GetUserID(c), articleID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, comments)
}

// Update replaces a comment's content
// PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Update(middleware.GetUserID(c), commentID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, comment)
}

// Resolve toggles a comment's resolved flag
// PUT /api/comments/:id/resolve
func (h *CommentHandler) Resolve(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ResolveCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.comments.Resolve(middleware.GetUserID(c), commentID, req.Resolved); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"resolved": req.Resolved})
}

// Delete removes a comment
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(middleware.GetUserID(c), commentID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "comment deleted"})
}
