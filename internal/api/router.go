package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicstats/identity-api/internal/api/handler"
	"github.com/civicstats/identity-api/internal/api/middleware"
	"github.com/civicstats/identity-api/internal/core/cache"
	"github.com/civicstats/identity-api/internal/core/ports"
	"github.com/civicstats/identity-api/internal/core/service"
	"github.com/civicstats/identity-api/internal/infrastructure/config"
	mongorepo "github.com/civicstats/identity-api/internal/infrastructure/db/mongo"
	redisstore "github.com/civicstats/identity-api/internal/infrastructure/db/redis"
	"github.com/civicstats/identity-api/internal/infrastructure/sms"
	"github.com/civicstats/identity-api/internal/infrastructure/wechat"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, writer cache.Writer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	refDataRepo := mongorepo.NewRefDataRepository(db)

	var sender ports.SmsSender
	if cfg.Sms.SecretKey != "" {
		sender = sms.NewHTTPSender(cfg.Sms.Endpoint, cfg.Sms.SecretKey)
	} else {
		sender = sms.NewLogSender(log)
	}

	issuer := service.NewTokenIssuer(cfg.JWT.Key, cfg.JWT.Issuer, cfg.JWT.Audience)
	authService := service.NewAuthService(
		userRepo,
		wechat.NewClient(cfg.WeChat.AppID, cfg.WeChat.AppSecret),
		redisstore.NewWxTokenCache(rdb),
		sender,
		redisstore.NewChallengeStore(rdb),
		issuer,
		cfg.WeChat.AppID,
		log,
	)
	refDataService := service.NewRefDataService(refDataRepo, redisstore.NewResultCache(rdb), writer, log)

	authHandler := handler.NewAuthHandler(authService)
	businessHandler := handler.NewBusinessHandler(refDataService)
	authMiddleware := middleware.Auth(cfg.JWT.Key, cfg.JWT.Issuer, cfg.JWT.Audience)

	// --- Login routes (anonymous) ---
	login := e.Group("/api/auth/login")
	login.GET("", authHandler.Login)
	login.GET("/FakeWeixinLogin", authHandler.FakeWeixinLogin)
	login.GET("/Token", authHandler.GetToken)

	// --- Registration routes (require a valid access token) ---
	reg := e.Group("/api/auth/reg", authMiddleware)
	reg.POST("/SendSmsCode", authHandler.SendSmsCode)
	reg.POST("/VerifySmsCode", authHandler.VerifySmsCode)
	reg.POST("", authHandler.Register)

	// --- Public reference data ---
	public := e.Group("/api/business/public")
	public.GET("/Info", businessHandler.Info)
	public.GET("/GdpData", businessHandler.GdpData)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
