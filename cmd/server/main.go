package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tradejournal/internal/auth"
	"tradejournal/internal/cache"
	"tradejournal/internal/config"
	cronrunner "tradejournal/internal/cron"
	"tradejournal/internal/db"
	"tradejournal/internal/handler"
	"tradejournal/internal/logger"
	gormrepository "tradejournal/internal/repository/gorm"
	"tradejournal/internal/service"

	_ "tradejournal/docs"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("TJ_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TJ_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	var sessionStore cache.Store
	var redisStore *cache.RedisStore
	if cfg.Redis.Enabled {
		redisStore = cache.NewRedisStore(cfg.Redis)
		sessionStore = redisStore
		logger.Info("session store: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessionStore = cache.NewMemoryStore()
		logger.Info("session store: in-memory")
	}
	if redisStore != nil {
		defer redisStore.Close()
	}

	tokens := auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), TokenTTL: cfg.Auth.TokenTTL}
	sessions := auth.Sessions{Store: sessionStore}
	hasher := auth.PasswordHasher{Cost: cfg.Auth.BcryptCost}

	userService := &service.UserService{
		Repo:     store,
		JWT:      tokens,
		Sessions: sessions,
		Hasher:   hasher,
		Logger:   logger,
	}
	tradeService := &service.TradeService{Repo: store, Plans: cfg.Plans, Logger: logger}
	accountService := &service.AccountService{Repo: store, Plans: cfg.Plans}
	emotionService := &service.EmotionService{Repo: store}
	notificationService := &service.NotificationService{Repo: store}
	adminService := &service.AdminService{Repo: store, Sessions: sessions, Logger: logger, StartedAt: time.Now()}
	snapshotService := &service.SnapshotService{Repo: store, Admin: adminService, Logger: logger}

	bootstrap := &service.Bootstrap{Repo: store, Logger: logger}
	if err := bootstrap.Run(context.Background()); err != nil {
		logger.Warn("seed defaults failed", zap.Error(err))
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	handler.SetErrorLogger(logger)

	authMW := auth.RequireAuth(tokens, sessions)
	adminMW := auth.RequireAdmin()

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm, Sessions: sessionStore}
	healthHandler.Register(engine)

	authHandler := &handler.AuthHandler{Users: userService, AuthMW: authMW}
	authHandler.Register(engine)
	tradeHandler := &handler.TradeHandler{Trades: tradeService, Users: userService, AuthMW: authMW}
	tradeHandler.Register(engine)
	accountHandler := &handler.AccountHandler{Accounts: accountService, Users: userService, AuthMW: authMW}
	accountHandler.Register(engine)
	instrumentHandler := &handler.InstrumentHandler{Repo: store}
	instrumentHandler.Register(engine)
	emotionHandler := &handler.EmotionHandler{Emotions: emotionService, AuthMW: authMW}
	emotionHandler.Register(engine)
	settingsHandler := &handler.UserSettingsHandler{Users: userService, AuthMW: authMW}
	settingsHandler.Register(engine)
	publicHandler := &handler.PublicHandler{Repo: store}
	publicHandler.Register(engine)
	notificationHandler := &handler.NotificationHandler{
		Notifications: notificationService,
		Logger:        logger,
		AuthMW:        authMW,
	}
	notificationHandler.Register(engine)
	adminHandler := &handler.AdminHandler{
		Admin:         adminService,
		Notifications: notificationService,
		Snapshots:     snapshotService,
		AuthMW:        authMW,
		AdminMW:       adminMW,
	}
	adminHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if _, err := cronRunner.AddSnapshotJob(cfg.Cron.PlatformSnapshot, snapshotService); err != nil {
			logger.Warn("cron register platform snapshot failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
