package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/middleware"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
)

// InvitationHandler serves the recipient side of invitations.
type InvitationHandler struct {
	invitations *services.InvitationService
}

func NewInvitationHandler(invitations *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// ListMine returns pending invitations addressed to the caller
// GET /api/invitations
func (h *InvitationHandler) ListMine(c *gin.Context) {
	invs, err := h.invitations.ListPendingForUser(middleware.GetEmail(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, invs)
}

// Accept joins the caller to the inviting project
// POST /api/invitations/:id/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	invitationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	member, err := h.invitations.Accept(invitationID, middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, member)
}

// Decline rejects an invitation addressed to the caller
// POST /api/invitations/:id/decline
func (h *InvitationHandler) Decline(c *gin.Context) {
	invitationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invitations.Decline(invitationID, middleware.GetUserID(c)); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "invitation declined"})
}
