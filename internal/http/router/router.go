package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iconsult/match-backend/internal/config"
	"github.com/iconsult/match-backend/internal/http/handlers"
	"github.com/iconsult/match-backend/internal/http/middleware"
	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/service"
)

// SetupRouter собирает дерево маршрутов.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	candidateHandler *handlers.CandidateHandler,
	companyHandler *handlers.CompanyHandler,
	listingHandler *handlers.ListingHandler,
	skillHandler *handlers.SkillHandler,
	unlockHandler *handlers.UnlockHandler,
	collaborationHandler *handlers.CollaborationHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/skills", skillHandler.ListSkills)

	// Защищённые маршруты для любой роли
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.GET("/auth/sessions", authHandler.ListSessions)
		protected.DELETE("/auth/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		protected.GET("/unlocks", unlockHandler.History)
		protected.POST("/unlocks", middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod), unlockHandler.Unlock)
		protected.GET("/unlocks/:type/:id", middleware.UUIDValidator("id"), unlockHandler.CheckUnlock)

		protected.GET("/collaborations/my", collaborationHandler.ListMy)
		protected.POST("/collaborations", collaborationHandler.Start)

		protected.GET("/companies/:id", middleware.UUIDValidator("id"), companyHandler.GetCompany)
	}

	// Маршруты консультанта
	consultant := api.Group("/")
	consultant.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleConsultant, models.RoleAdmin))
	{
		consultant.GET("/candidates/me", candidateHandler.GetMe)
		consultant.PUT("/candidates/me", candidateHandler.UpdateMe)
		consultant.GET("/listings", listingHandler.ListListings)
		consultant.GET("/listings/:id", middleware.UUIDValidator("id"), listingHandler.GetListing)
		consultant.POST("/collaborations/end", collaborationHandler.End)
	}

	// Маршруты компании
	company := api.Group("/")
	company.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleCompany, models.RoleAdmin))
	{
		company.GET("/companies/me", companyHandler.GetMe)
		company.PUT("/companies/me", companyHandler.UpdateMe)
		company.GET("/candidates", candidateHandler.ListCandidates)
		company.GET("/candidates/:id", middleware.UUIDValidator("id"), candidateHandler.GetCandidate)
		company.POST("/listings", listingHandler.Create)
		company.PUT("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Update)
		company.DELETE("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Delete)
		company.GET("/listings/my", listingHandler.ListMy)
	}

	// Маршруты администратора
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/skills", skillHandler.CreateSkill)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "маршрут не найден"})
	})

	return r
}
