package main

import (
	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/middleware"
	"github.com/seoforge/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(middleware.RequestID())
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for unauthenticated auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", svc.healthHandler.Check)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/signup", svc.authHandler.SignUp)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.POST("/logout", svc.authHandler.Logout)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Current user
			protected.GET("/users/me", svc.userHandler.Me)
			protected.PUT("/users/me", svc.userHandler.UpdateProfile)
			protected.GET("/users/me/usage", svc.userHandler.Usage)
			protected.GET("/users/me/stats", svc.userHandler.Stats)

			// Projects
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/:id", svc.projectHandler.Get)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Team
			protected.GET("/projects/:id/members", svc.teamHandler.ListMembers)
			protected.PUT("/projects/:id/members/:userID", svc.teamHandler.SetRole)
			protected.DELETE("/projects/:id/members/:userID", svc.teamHandler.RemoveMember)
			protected.POST("/projects/:id/invitations", svc.teamHandler.Invite)
			protected.GET("/projects/:id/invitations", svc.teamHandler.ListInvitations)
			protected.DELETE("/projects/:id/invitations/:invitationID", svc.teamHandler.CancelInvitation)
			protected.GET("/projects/:id/activity", svc.teamHandler.Activity)

			// Invitations addressed to the current user
			protected.GET("/invitations", svc.invitationHandler.ListMine)
			protected.POST("/invitations/:id/accept", svc.invitationHandler.Accept)
			protected.POST("/invitations/:id/decline", svc.invitationHandler.Decline)

			// Articles
			protected.POST("/projects/:id/articles", svc.articleHandler.Create)
			protected.GET("/projects/:id/articles", svc.articleHandler.List)
			protected.GET("/articles/:id", svc.articleHandler.Get)
			protected.PUT("/articles/:id", svc.articleHandler.Update)
			protected.DELETE("/articles/:id", svc.articleHandler.Delete)

			// Comments
			protected.POST("/articles/:id/comments", svc.commentHandler.Create)
			protected.GET("/articles/:id/comments", svc.commentHandler.List)
			protected.PUT("/comments/:id", svc.commentHandler.Update)
			protected.PUT("/comments/:id/resolve", svc.commentHandler.Resolve)
			protected.DELETE("/comments/:id", svc.commentHandler.Delete)

			// Content briefs
			protected.POST("/briefs/generate", svc.briefHandler.Generate)
			protected.POST("/briefs", svc.briefHandler.Create)
			protected.GET("/briefs", svc.briefHandler.List)
			protected.PUT("/briefs/:id", svc.briefHandler.Update)
			protected.DELETE("/briefs/:id", svc.briefHandler.Delete)
		}
	}
}
