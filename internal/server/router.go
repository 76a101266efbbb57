// Package server assembles the HTTP router.
package server

import (
	"log/slog"
	"time"

	"github.com/actionhub/action-hub/internal/actions"
	"github.com/actionhub/action-hub/internal/ai"
	"github.com/actionhub/action-hub/internal/auth"
	"github.com/actionhub/action-hub/internal/calendar"
	"github.com/actionhub/action-hub/internal/config"
	"github.com/actionhub/action-hub/internal/content"
	"github.com/actionhub/action-hub/internal/dashboard"
	"github.com/actionhub/action-hub/internal/health"
	"github.com/actionhub/action-hub/internal/meetings"
	"github.com/actionhub/action-hub/internal/notify"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New builds the gin engine with middleware, handler wiring, and all routes.
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Google-Access-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Cookie sessions back the browser OAuth flows only; API auth is JWT
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("actionhub_session", store))

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenExpiryMin)
	requireAuth := auth.RequireAuth(issuer, db)

	authHandlers := auth.NewHandlers(db, cfg, issuer)
	notionProvider := content.NewNotionProvider(cfg.NotionAPIKey, cfg.NotionDatabaseID)
	extractor := ai.NewClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.AIStubMode)
	meetingHandlers := meetings.NewHandlers(db, calendar.NewClient(), extractor, notionProvider)
	actionHandlers := actions.NewHandlers(db, actions.NewDispatcher(cfg.NotionAPIKey, cfg.NotionDatabaseID))
	dashboardHandlers := dashboard.NewHandlers(db)
	notifyHandlers := notify.NewHandlers(db)

	r.GET("/health", gin.WrapF(health.Handler))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authHandlers.Signup)
		authGroup.POST("/login", authHandlers.Login)
		authGroup.POST("/google", authHandlers.GoogleExchange)
		authGroup.GET("/login", authHandlers.BeginGoogleLogin)
		authGroup.GET("/google/callback", authHandlers.GoogleCallback)
		authGroup.GET("/settings", requireAuth, authHandlers.GetSettings)
		authGroup.POST("/settings", requireAuth, authHandlers.UpdateSettings)
		authGroup.GET("/notion", authHandlers.BeginNotionLogin)
		authGroup.POST("/notion/callback", requireAuth, authHandlers.NotionCallback)
	}

	meetingsGroup := r.Group("/meetings", requireAuth)
	{
		meetingsGroup.POST("/sync", meetingHandlers.Sync)
		meetingsGroup.POST("/:id/process", meetingHandlers.Process)
		meetingsGroup.POST("/:id/analyze", meetingHandlers.Analyze)
		meetingsGroup.GET("/:id/fetch-notes", meetingHandlers.FetchNotes)
	}

	actionsGroup := r.Group("/actions", requireAuth)
	{
		actionsGroup.POST("", actionHandlers.Create)
		actionsGroup.PATCH("/:id", actionHandlers.Update)
		actionsGroup.POST("/:id/execute", actionHandlers.Execute)
	}

	dashboardGroup := r.Group("/dashboard", requireAuth)
	{
		dashboardGroup.GET("/today", dashboardHandlers.Today)
		dashboardGroup.GET("/history", dashboardHandlers.History)
	}

	notificationsGroup := r.Group("/notifications", requireAuth)
	{
		notificationsGroup.POST("/trigger-daily-brief", notifyHandlers.TriggerDailyBrief)
		notificationsGroup.POST("/trigger-reminders", notifyHandlers.TriggerReminders)
	}

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
