package app

import (
	"context"
	"net/http"

	"codearena-gateway/internal/bootstrap"
	"codearena-gateway/internal/chat"
	"codearena-gateway/internal/config"
	"codearena-gateway/internal/db"
	adminHandler "codearena-gateway/internal/handlers/admin"
	authHandler "codearena-gateway/internal/handlers/auth"
	chatHandler "codearena-gateway/internal/handlers/chat"
	competitionHandler "codearena-gateway/internal/handlers/competition"
	groupHandler "codearena-gateway/internal/handlers/group"
	navHandler "codearena-gateway/internal/handlers/nav"
	"codearena-gateway/internal/middleware"
	"codearena-gateway/internal/pkg/session"
	"codearena-gateway/internal/upstream"
	"codearena-gateway/internal/upstream/stub"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	bots       *chat.BotSquad
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()
	s.logger = logger

	// ----- Redis -----
	// Optional: the persisted session copy is an optimization, so a missing
	// Redis degrades to memory-only sessions instead of refusing to start.
	var redisClient *redis.Client
	redisCfg := db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	}
	redisClient, err = db.NewRedisClient(redisCfg)
	if err != nil {
		logger.Warn("redis unavailable, sessions will not survive restarts", zap.Error(err))
		redisClient = nil
	} else {
		logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))
	}

	// ----- Upstream clients -----
	var (
		identityAPI    upstream.IdentityAPI
		groupAPI       upstream.GroupAPI
		adminAPI       upstream.AdminAPI
		competitionAPI upstream.CompetitionAPI
	)
	if s.cfg.UpstreamBaseURL == "" {
		logger.Info("no upstream configured, running in demo mode")
		provider := stub.NewProvider(s.cfg.UpstreamCookieName, logger)
		identityAPI, groupAPI, adminAPI, competitionAPI = provider, provider, provider, provider
	} else {
		client := upstream.NewClient(s.cfg.UpstreamBaseURL, s.cfg.UpstreamTimeout, logger)
		identityAPI = upstream.NewHTTPIdentity(client, s.cfg.UpstreamCookieName)
		groupAPI = upstream.NewHTTPGroups(client)
		adminAPI = upstream.NewHTTPAdmin(client)
		competitionAPI = upstream.NewHTTPCompetitions(client)
		logger.Info("upstream configured", zap.String("base_url", s.cfg.UpstreamBaseURL))
	}

	// ----- Sessions & bootstrap -----
	sessionManager := session.NewManager(redisClient, s.cfg.SessionTTL, logger)
	bootstrapper := bootstrap.New(identityAPI, s.cfg.UpstreamTimeout, logger)

	// ----- Chat -----
	registry := chat.NewRegistry(logger)
	s.bots = chat.NewBotSquad(registry, logger)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(identityAPI, sessionManager, s.cfg.UpstreamCookieName, logger)
	groupHandlerInst := groupHandler.NewGroupHandler(groupAPI, logger)
	adminHandlerInst := adminHandler.NewAdminHandler(adminAPI, logger)
	competitionHandlerInst := competitionHandler.NewCompetitionHandler(competitionAPI, logger)
	chatHandlerInst := chatHandler.NewChatHandler(registry, logger)
	navHandlerInst := navHandler.NewNavHandler(groupAPI, adminAPI, registry, logger)

	// ----- Middlewares -----
	sessionMiddleware := middleware.NewSessionMiddleware(
		sessionManager,
		bootstrapper,
		s.cfg.SessionCookieName,
		s.cfg.UpstreamCookieName,
		s.cfg.SessionTTL,
		s.cfg.BootstrapWait,
		logger,
	)
	guardMiddleware := middleware.NewGuardMiddleware(logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
		sessionMiddleware.Attach(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:        authHandlerInst,
		GroupHandler:       groupHandlerInst,
		AdminHandler:       adminHandlerInst,
		CompetitionHandler: competitionHandlerInst,
		ChatHandler:        chatHandlerInst,
		NavHandler:         navHandlerInst,
		GuardMiddleware:    guardMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	logger.Info("gateway listening", zap.String("addr", s.cfg.HTTPAddr))
	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops bot traffic and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.bots != nil {
		s.bots.Shutdown()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
