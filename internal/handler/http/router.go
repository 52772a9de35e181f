package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/handler/http/middleware"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/repository/redis"
)

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Auth        *AuthHandler
	Me          *MeHandler
	Events      *EventHandler
	Speakers    *SpeakerHandler
	Admin       *AdminHandler
	System      *SystemHandler
	Validator   middleware.TokenValidator
	RateLimiter *redis.RateLimiter
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(),
		middleware.CORS(),
	)

	router.GET("/health", deps.System.Health)
	router.GET("/.well-known/jwks.json", deps.System.JWKS)
	if deps.Config.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	authn := middleware.Auth(deps.Validator, deps.Logger)
	organizerOrAdmin := middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	limits := deps.Config.Security.RateLimiting

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register",
			middleware.RateLimitByIP(deps.RateLimiter, "register", limits.RegisterPerIP, deps.Logger),
			deps.Auth.Register)
		auth.POST("/verify-email", deps.Auth.VerifyEmail)
		auth.POST("/login",
			middleware.RateLimitByIP(deps.RateLimiter, "login", limits.LoginPerIP, deps.Logger),
			deps.Auth.Login)
		auth.POST("/login/2fa",
			middleware.RateLimitByIP(deps.RateLimiter, "login_2fa", limits.LoginPerIP, deps.Logger),
			deps.Auth.VerifyTwoFactor)
		auth.POST("/refresh", deps.Auth.Refresh)
		auth.POST("/logout", authn, deps.Auth.Logout)
		auth.POST("/logout-all", authn, deps.Auth.LogoutAll)
		auth.POST("/forgot-password",
			middleware.RateLimitByIP(deps.RateLimiter, "password_reset", limits.PasswordResetIP, deps.Logger),
			deps.Auth.ForgotPassword)
		auth.POST("/reset-password", deps.Auth.ResetPassword)
	}

	me := v1.Group("/me", authn)
	{
		me.GET("", deps.Me.Profile)
		me.POST("/change-password", deps.Me.ChangePassword)

		me.GET("/sessions", deps.Me.ListSessions)
		me.DELETE("/sessions/:id", deps.Me.TerminateSession)
		me.POST("/sessions/terminate-others", deps.Me.TerminateOtherSessions)

		twoFALimit := middleware.RateLimitByUser(deps.RateLimiter, "two_fa", limits.TwoFAPerUser, deps.Logger)
		me.GET("/2fa", deps.Me.TwoFactorStatus)
		me.POST("/2fa/enroll", deps.Me.EnrollTwoFactor)
		me.POST("/2fa/confirm", twoFALimit, deps.Me.ConfirmTwoFactor)
		me.POST("/2fa/disable", deps.Me.DisableTwoFactor)
		me.POST("/2fa/backup-codes", deps.Me.RegenerateBackupCodes)

		me.GET("/preferences", deps.Me.GetPreferences)
		me.PATCH("/preferences", deps.Me.UpdatePreferences)

		me.GET("/loyalty", deps.Me.LoyaltySummary)
		me.GET("/loyalty/history", deps.Me.LoyaltyHistory)

		me.GET("/registrations", deps.Me.ListRegistrations)
	}

	events := v1.Group("/events")
	{
		events.GET("", deps.Events.List)
		events.GET("/:id", deps.Events.Get)

		events.POST("", authn, organizerOrAdmin, deps.Events.Create)
		events.PATCH("/:id", authn, deps.Events.Update)
		events.POST("/:id/publish", authn, deps.Events.Publish)
		events.POST("/:id/cancel", authn, deps.Events.Cancel)
		events.POST("/:id/complete", authn, deps.Events.Complete)

		events.POST("/:id/register", authn, deps.Events.Register)
		events.DELETE("/:id/register", authn, deps.Events.CancelRegistration)
		events.GET("/:id/registrations", authn, deps.Events.ListRegistrations)
		events.GET("/:id/contracts", authn, organizerOrAdmin, deps.Speakers.ListContractsByEvent)
	}
	v1.POST("/registrations/:id/attended", authn, deps.Events.MarkAttended)

	speakers := v1.Group("/speakers")
	{
		speakers.GET("", deps.Speakers.ListSpeakers)
		speakers.GET("/:id", deps.Speakers.GetSpeaker)
		speakers.POST("", authn, organizerOrAdmin, deps.Speakers.CreateSpeaker)
		speakers.PATCH("/:id", authn, organizerOrAdmin, deps.Speakers.UpdateSpeaker)
	}

	contracts := v1.Group("/contracts", authn)
	{
		contracts.POST("", organizerOrAdmin, deps.Speakers.CreateContract)
		contracts.GET("/:id", deps.Speakers.GetContract)
		contracts.POST("/:id/send", organizerOrAdmin, deps.Speakers.SendContract)
		contracts.POST("/:id/sign", deps.Speakers.SignContract)
		contracts.POST("/:id/decline", deps.Speakers.DeclineContract)
		contracts.POST("/:id/cancel", organizerOrAdmin, deps.Speakers.CancelContract)
	}

	admin := v1.Group("/admin", authn, adminOnly)
	{
		admin.GET("/users", deps.Admin.ListUsers)
		admin.GET("/users/:id", deps.Admin.GetUser)
		admin.POST("/users/:id/block", deps.Admin.BlockUser)
		admin.POST("/users/:id/unblock", deps.Admin.UnblockUser)
		admin.DELETE("/users/:id", deps.Admin.DeleteUser)
		admin.DELETE("/users/:id/sessions", deps.Admin.RevokeUserSessions)
		admin.POST("/users/:id/roles", deps.Admin.AssignRole)
		admin.DELETE("/users/:id/roles", deps.Admin.RemoveRole)

		admin.GET("/roles", deps.Admin.ListRoles)
		admin.POST("/roles", deps.Admin.CreateRole)
		admin.GET("/roles/:id", deps.Admin.GetRole)
		admin.PATCH("/roles/:id", deps.Admin.UpdateRole)
		admin.DELETE("/roles/:id", deps.Admin.DeleteRole)
		admin.GET("/permissions", deps.Admin.ListPermissions)

		admin.GET("/audit-logs", deps.Admin.ListAuditLogs)
		admin.GET("/audit-logs/:id", deps.Admin.GetAuditLog)

		admin.GET("/settings", deps.Admin.ListSettings)
		admin.GET("/settings/:key", deps.Admin.GetSetting)
		admin.PUT("/settings/:key", deps.Admin.UpsertSetting)
		admin.DELETE("/settings/:key", deps.Admin.DeleteSetting)

		admin.GET("/badges", deps.Admin.ListBadges)
		admin.POST("/badges", deps.Admin.CreateBadge)
	}

	return router
}
