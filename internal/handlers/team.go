package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/middleware"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
)

// TeamHandler serves project-scoped team endpoints: the member roster,
// outbound invitations and the activity feed.
type TeamHandler struct {
	members     *services.MembershipService
	invitations *services.InvitationService
	authz       *services.AuthzService
	activity    *services.ActivityService
}

func NewTeamHandler(members *services.MembershipService, invitations *services.InvitationService, authz *services.AuthzService, activity *services.ActivityService) *TeamHandler {
	return &TeamHandler{members: members, invitations: invitations, authz: authz, activity: activity}
}

type InviteRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListMembers returns the active members of a project
// GET /api/projects/:id/members
func (h *TeamHandler) ListMembers(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if !h.requireView(c, projectID) {
		return
	}

	members, err := h.members.ListActiveMembers(projectID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, members)
}

// SetRole changes a member's role
// PUT /api/projects/:id/members/:userID
func (h *TeamHandler) SetRole(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.members.SetRole(middleware.GetUserID(c), projectID, targetID, req.Role)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, member)
}

// RemoveMember deactivates a member
// DELETE /api/projects/:id/members/:userID
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	if err := h.members.Deactivate(middleware.GetUserID(c), projectID, targetID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed"})
}

// Invite creates a pending invitation
// POST /api/projects/:id/invitations
func (h *TeamHandler) Invite(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	inv, err := h.invitations.Invite(middleware.GetUserID(c), projectID, req.Email, req.Role)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, inv)
}

// ListInvitations returns a project's pending invitations
// GET /api/projects/:id/invitations
func (h *TeamHandler) ListInvitations(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	allowed, err := h.authz.CanManageTeam(middleware.GetUserID(c), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	if !allowed {
		response.Forbidden(c, "admin access required")
		return
	}

	invs, err := h.invitations.ListPendingForProject(projectID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, invs)
}

// CancelInvitation withdraws a pending invitation
// DELETE /api/projects/:id/invitations/:invitationID
func (h *TeamHandler) CancelInvitation(c *gin.Context) {
	invitationID, ok := pathID(c, "invitationID")
	if !ok {
		return
	}

	if err := h.invitations.Cancel(middleware.GetUserID(c), invitationID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "invitation cancelled"})
}

// Activity returns a project's activity feed, newest first
// GET /api/projects/:id/activity
func (h *TeamHandler) Activity(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if !h.requireView(c, projectID) {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.activity.List(projectID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, entries)
}

func (h *TeamHandler) requireView(c *gin.Context, projectID uint) bool {
	allowed, err := h.authz.CanView(middleware.GetUserID(c), projectID)
	if err != nil {
		fail(c, err)
		return false
	}
	if !allowed {
		response.Forbidden(c, "not a member of this project")
		return false
	}
	return true
}
