package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SignUp registers a new account
// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.auth.SignUp(req.Email, req.Password, req.FullName)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, user.Public())
}

// Login authenticates and issues a token pair
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, pair, err := h.auth.Login(req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":   user.Public(),
		"tokens": pair,
	})
}

// Refresh rotates a refresh token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.Refresh(req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, pair)
}

// Logout revokes the presented refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.Logout(req.RefreshToken); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "logged out"})
}
