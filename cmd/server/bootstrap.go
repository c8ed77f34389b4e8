package main

import (
	"github.com/seoforge/backend/internal/config"
	"github.com/seoforge/backend/internal/handlers"
	"github.com/seoforge/backend/internal/models"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/internal/utils"
	"github.com/seoforge/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	activityQueue  services.ActivityQueue
	activityWorker *services.ActivityWorker
	quota          *services.QuotaService

	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	projectHandler    *handlers.ProjectHandler
	teamHandler       *handlers.TeamHandler
	invitationHandler *handlers.InvitationHandler
	articleHandler    *handlers.ArticleHandler
	commentHandler    *handlers.CommentHandler
	briefHandler      *handlers.BriefHandler
	healthHandler     *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Activity recording goes through a best-effort side channel: Redis-backed
	// when available, inline writes otherwise.
	activity := services.NewActivityService(db)
	queue := services.InitActivityQueue(&cfg.Redis, activity.Write)
	activity.SetQueue(queue)

	var worker *services.ActivityWorker
	if queue.IsAsync() {
		worker = services.NewActivityWorker(&cfg.Redis, activity.Write)
		if err := worker.Start(); err != nil {
			logger.Warnf("Failed to start activity worker: %v", err)
			worker = nil
		}
	}

	members := services.NewMembershipService(db, activity)
	authz := services.NewAuthzService(members)
	invitations := services.NewInvitationService(db, members, activity, cfg.Invitation.ExpireDays)
	projects := services.NewProjectService(db, members, authz, activity)
	articles := services.NewArticleService(db, authz, activity)
	comments := services.NewCommentService(db, authz)

	quota := services.NewQuotaService(db)
	if err := quota.StartResetScheduler(cfg.Quota.ResetCron); err != nil {
		logger.Warnf("Failed to start quota reset scheduler: %v", err)
	}

	generator := services.NewAIGenerator(&cfg.AI)
	briefs := services.NewContentBriefService(db, quota, generator, authz, activity)

	auth := services.NewAuthService(db, cfg)

	return &appServices{
		activityQueue:  queue,
		activityWorker: worker,
		quota:          quota,

		authHandler:       handlers.NewAuthHandler(auth),
		userHandler:       handlers.NewUserHandler(db, quota, projects),
		projectHandler:    handlers.NewProjectHandler(projects),
		teamHandler:       handlers.NewTeamHandler(members, invitations, authz, activity),
		invitationHandler: handlers.NewInvitationHandler(invitations),
		articleHandler:    handlers.NewArticleHandler(articles),
		commentHandler:    handlers.NewCommentHandler(comments),
		briefHandler:      handlers.NewBriefHandler(briefs),
		healthHandler:     handlers.NewHealthHandler(db),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.quota.StopResetScheduler()

	if s.activityWorker != nil {
		s.activityWorker.Stop()
	}
	if s.activityQueue != nil {
		s.activityQueue.Close()
	}
	logger.Info().Msg("Background services stopped")
}
