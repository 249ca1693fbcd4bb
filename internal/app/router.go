package app

import (
	"codearena-gateway/internal/domain/identity"
	adminHandler "codearena-gateway/internal/handlers/admin"
	authHandler "codearena-gateway/internal/handlers/auth"
	chatHandler "codearena-gateway/internal/handlers/chat"
	competitionHandler "codearena-gateway/internal/handlers/competition"
	groupHandler "codearena-gateway/internal/handlers/group"
	navHandler "codearena-gateway/internal/handlers/nav"
	"codearena-gateway/internal/middleware"
	"codearena-gateway/internal/routeguard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	GroupHandler       *groupHandler.GroupHandler
	AdminHandler       *adminHandler.AdminHandler
	CompetitionHandler *competitionHandler.CompetitionHandler
	ChatHandler        *chatHandler.ChatHandler
	NavHandler         *navHandler.NavHandler
	GuardMiddleware    *middleware.GuardMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	guard := h.GuardMiddleware

	// ==================== Health Check ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Navigable Views ====================
	// The route tables are the single source of truth for which views exist
	// and who may see them; the router only binds each rule to its handler.

	r.GET(routeguard.PathRoot, h.NavHandler.Root)
	r.NoRoute(h.NavHandler.NotFound)

	authViews := map[string]gin.HandlerFunc{
		routeguard.PathLogin:          h.NavHandler.AuthSurface("login"),
		routeguard.PathRegister:       h.NavHandler.AuthSurface("register"),
		routeguard.PathOTPVerify:      h.NavHandler.AuthSurface("otp_verify"),
		routeguard.PathForgotPassword: h.NavHandler.AuthSurface("forgot_password"),
		routeguard.PathResetPassword:  h.NavHandler.AuthSurface("reset_password"),
		routeguard.PathAdminLogin:     h.NavHandler.AuthSurface("admin_login"),
	}
	for _, rule := range routeguard.AuthRoutes {
		r.GET(rule.Path, guard.Public(), authViews[rule.Path])
	}

	userViews := map[string]gin.HandlerFunc{
		routeguard.PathDashboard:   h.NavHandler.Dashboard,
		routeguard.PathGroups:      h.NavHandler.Groups,
		routeguard.PathGroupDetail: h.NavHandler.GroupDetail,
		routeguard.PathCompetition: h.NavHandler.Competition,
	}
	for _, rule := range routeguard.UserRoutes {
		r.GET(rule.Path, guard.Guard(rule), userViews[rule.Path])
	}

	adminViews := map[string]gin.HandlerFunc{
		routeguard.PathAdminRoot:   h.NavHandler.AdminRoot,
		routeguard.PathAdminUsers:  h.NavHandler.AdminUsers,
		routeguard.PathAdminGroups: h.NavHandler.AdminGroups,
	}
	for _, rule := range routeguard.AdminRoutes {
		r.GET(rule.Path, guard.Guard(rule), adminViews[rule.Path])
	}

	// ==================== Data API ====================
	api := r.Group("/api")

	// Public auth actions
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/verify-otp", h.AuthHandler.VerifyOTP)
		authPublic.POST("/resend-otp", h.AuthHandler.ResendOTP)
		authPublic.POST("/forgot-password", h.AuthHandler.ForgotPassword)
		authPublic.POST("/reset-password", h.AuthHandler.ResetPassword)
		authPublic.GET("/session", h.AuthHandler.Session)
		authPublic.POST("/logout", h.AuthHandler.Logout)
	}

	// Authenticated auth actions
	authProtected := api.Group("/auth")
	authProtected.Use(guard.RequireAuthenticated())
	{
		authProtected.GET("/profile", h.AuthHandler.Profile)
	}

	// Groups
	groups := api.Group("/groups")
	groups.Use(guard.RequireAuthenticated())
	{
		groups.GET("", h.GroupHandler.List)
		groups.GET("/my-groups", h.GroupHandler.MyGroups)
		groups.POST("", h.GroupHandler.Create)
		groups.GET("/:group_id", h.GroupHandler.Get)
		groups.POST("/:group_id/join", h.GroupHandler.Join)
		groups.POST("/:group_id/leave", h.GroupHandler.Leave)
		groups.GET("/:group_id/members/:user_id", h.GroupHandler.IsMember)
		groups.GET("/:group_id/chat", h.ChatHandler.History)
		groups.POST("/:group_id/chat", h.ChatHandler.Post)
	}

	// Competitions & duels
	competitions := api.Group("")
	competitions.Use(guard.RequireAuthenticated())
	{
		competitions.POST("/competitions", h.CompetitionHandler.CreateCompetition)
		competitions.POST("/duels", h.CompetitionHandler.CreateDuel)
	}

	// Admin
	admin := api.Group("/admin")
	admin.Use(guard.RequireAuthenticated(), guard.RequireRole(identity.RoleAdmin))
	{
		admin.GET("/users", h.AdminHandler.Users)
		admin.GET("/groups/pending", h.AdminHandler.PendingGroups)
		admin.PATCH("/groups/:group_id/approve", h.AdminHandler.ApproveGroup)
		admin.PATCH("/groups/:group_id/reject", h.AdminHandler.RejectGroup)
	}

	// ==================== WebSocket ====================
	r.GET("/ws/groups/:group_id", h.ChatHandler.Connect)
}
