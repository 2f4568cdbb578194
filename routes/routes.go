package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/velvetsocial/community-backend/config"
	"github.com/velvetsocial/community-backend/internal/admin"
	"github.com/velvetsocial/community-backend/internal/auditlog"
	"github.com/velvetsocial/community-backend/internal/auth"
	"github.com/velvetsocial/community-backend/internal/event"
	"github.com/velvetsocial/community-backend/internal/notification"
	"github.com/velvetsocial/community-backend/internal/profile"
	"github.com/velvetsocial/community-backend/internal/relay"
	"github.com/velvetsocial/community-backend/internal/reports"
	"github.com/velvetsocial/community-backend/internal/review"
	"github.com/velvetsocial/community-backend/internal/rsvp"
	"github.com/velvetsocial/community-backend/middleware"
)

// Deps exposes the services main needs after wiring
type Deps struct {
	Notifications notification.Service
}

// Setup wires repositories, services and handlers onto the router
func Setup(router *gin.Engine, db *gorm.DB, cfg *config.Config) *Deps {
	// ===========================
	// Repositories
	// ===========================
	auditRepo := auditlog.NewRepository(db)
	authRepo := auth.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	eventRepo := event.NewRepository(db)
	rsvpRepo := rsvp.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// ===========================
	// Services
	// ===========================
	auditSvc := auditlog.NewService(auditRepo)
	authSvc := auth.NewService(authRepo, cfg)
	profileSvc := profile.NewService(profileRepo, auditSvc)
	rsvpSvc := rsvp.NewService(rsvpRepo, eventRepo, auditSvc)
	eventSvc := event.NewService(eventRepo, auditSvc, rsvpSvc.StatusFor)
	reviewSvc := review.NewService(reviewRepo, eventRepo, auditSvc)
	notificationSvc := notification.NewService(notificationRepo, authRepo)
	reportsSvc := reports.NewService(rsvpSvc, eventRepo)
	adminSvc := admin.NewService(adminRepo, auditSvc)

	// ===========================
	// Handlers
	// ===========================
	authHandler := auth.NewHandler(authSvc)
	profileHandler := profile.NewHandler(profileSvc)
	eventHandler := event.NewHandler(eventSvc)
	rsvpHandler := rsvp.NewHandler(rsvpSvc, profileSvc)
	reviewHandler := review.NewHandler(reviewSvc)
	notificationHandler := notification.NewHandler(notificationSvc)
	reportsHandler := reports.NewHandler(reportsSvc)
	auditHandler := auditlog.NewHandler(auditSvc)
	adminHandler := admin.NewHandler(adminSvc)
	liveRelay := relay.New(eventRepo)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// live status/chat channel; sessions are room-scoped by slug
	router.GET("/ws/events", liveRelay.HandleRequest)

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ===========================
	// Public auth routes
	// ===========================
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.GET("/public-roles", authHandler.GetPublicRoles)
	}

	// ===========================
	// Authenticated routes
	// ===========================
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))
	{
		// profiles
		protected.GET("/profiles", profileHandler.ListDiscoverable)
		protected.GET("/profiles/me", profileHandler.GetMyProfile)
		protected.PUT("/profiles/me", profileHandler.UpdateMyProfile)
		protected.GET("/profiles/:handle", profileHandler.GetByHandle)

		// event catalog (viewer-filtered)
		protected.GET("/events", eventHandler.ListEvents)
		protected.GET("/events/:slug", eventHandler.GetEvent)
		protected.GET("/events/:slug/capacity", rsvpHandler.Capacity)
		protected.GET("/events/:slug/reviews", reviewHandler.ListForEvent)

		// RSVP ledger
		protected.POST("/events/:slug/rsvp", rsvpHandler.Submit)
		protected.GET("/rsvps/mine", rsvpHandler.MyRSVPs)
		protected.GET("/rsvps/:id/pass.png", rsvpHandler.CheckinPass)
		protected.GET("/rsvps/:id/pass.pdf", reportsHandler.CheckinPass)

		// check-in at the door
		protected.POST("/events/checkin", rsvpHandler.Checkin)

		// reviews
		protected.POST("/events/:slug/reviews", reviewHandler.Submit)

		// notifications
		protected.GET("/notifications", notificationHandler.List)
		protected.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		protected.POST("/notifications/devices", notificationHandler.RegisterDevice)
		protected.DELETE("/notifications/devices", notificationHandler.UnregisterDevice)
	}

	// ===========================
	// Host routes
	// ===========================
	host := protected.Group("")
	host.Use(middleware.RBACMiddleware(middleware.RoleHost, middleware.RoleAdmin))
	{
		host.POST("/events", eventHandler.CreateEvent)
		host.PUT("/events/:slug", eventHandler.UpdateEvent)
		host.DELETE("/events/:slug", eventHandler.DeactivateEvent)
		host.GET("/events/mine", eventHandler.MyEvents)
		host.GET("/events/:slug/rsvps", rsvpHandler.ListForEvent)
		host.PATCH("/rsvps/:id/status", rsvpHandler.UpdateStatus)
		host.GET("/events/:slug/reports/guests.xlsx", reportsHandler.GuestList)
	}

	// ===========================
	// Admin routes
	// ===========================
	adminGroup := protected.Group("/admin")
	adminGroup.Use(middleware.RBACMiddleware(middleware.RoleAdmin))
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.PATCH("/users/:id/status", adminHandler.SetUserStatus)
		adminGroup.GET("/hosts/pending", adminHandler.PendingHosts)
		adminGroup.POST("/hosts/:id/approve", adminHandler.ApproveHost)
		adminGroup.POST("/hosts/:id/reject", adminHandler.RejectHost)
		adminGroup.GET("/stats", adminHandler.Stats)

		adminGroup.POST("/badges/grant", profileHandler.GrantBadge)
		adminGroup.POST("/badges/revoke", profileHandler.RevokeBadge)

		adminGroup.GET("/reviews/pending", reviewHandler.ListPending)
		adminGroup.PATCH("/reviews/:id", reviewHandler.Moderate)

		adminGroup.GET("/auditlogs", auditHandler.GetAuditLogs)
		adminGroup.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)
	}

	return &Deps{Notifications: notificationSvc}
}
