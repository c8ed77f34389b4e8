package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/middleware"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
)

type ArticleHandler struct {
	articles *services.ArticleService
}

func NewArticleHandler(articles *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

type CreateArticleRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// Create adds an article to a project
// POST /api/projects/:id/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	article, err := h.articles.Create(middleware.GetUserID(c), projectID, req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, article)
}

// List returns a project's articles
// GET /api/projects/:id/articles
func (h *ArticleHandler) List(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	articles, err := h.articles.List(middleware.GetUserID(c), projectID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, articles)
}

// Get returns a single article
// GET /api/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	articleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	article, err := h.articles.Get(middleware.GetUserID(c), articleID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, article)
}

// Update edits an article
// PUT /api/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	articleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.ArticleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	article, err := h.articles.Update(middleware.GetUserID(c), articleID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, article)
}

// Delete removes an article
// DELETE /api/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	articleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.articles.Delete(middleware.GetUserID(c), articleID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "article deleted"})
}
