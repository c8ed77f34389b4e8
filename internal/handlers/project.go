package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/middleware"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type ProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type ProjectUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create creates a project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.Create(middleware.GetUserID(c), req.Title, req.Description)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, project)
}

// List returns projects the caller is an active member of
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.ListForUser(middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, projects)
}

// Get returns a single project
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(middleware.GetUserID(c), projectID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, project)
}

// Update edits a project's title or description
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.Update(middleware.GetUserID(c), projectID, req.Title, req.Description)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, project)
}

// Delete removes a project. Owner only.
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projects.Delete(middleware.GetUserID(c), projectID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted"})
}
