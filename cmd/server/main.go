package main

import (
	"log"
	"net/http"
	"time"

	_ "estatedesk/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"estatedesk/internal/auth"
	"estatedesk/internal/cache"
	"estatedesk/internal/config"
	"estatedesk/internal/db"
	"estatedesk/internal/handler"
	"estatedesk/internal/logger"
	"estatedesk/internal/mailer"
	"estatedesk/internal/metrics"
	"estatedesk/internal/model"
	"estatedesk/internal/rate"
	"estatedesk/internal/repository"
	"estatedesk/internal/router"
	"estatedesk/internal/service"
)

// @title EstateDesk API
// @version 1.0
// @description Real-estate marketplace API with OTP-gated registration, property moderation and lead management.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zlog.Sync()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.PendingAccount{},
		&model.Property{},
		&model.Lead{},
		&model.SiteVisit{},
		&model.Notification{},
		&model.Favorite{},
	); err != nil {
		zlog.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	repos := repository.NewRepositories(gormDB)

	// Outbound mail; without an SMTP host messages are logged instead of sent.
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SenderName)
	} else {
		zlog.Warn("SMTP_HOST not set, mail delivery disabled")
		mail = mailer.NewLogMailer(zlog)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	limiter := rate.NewLimiter(cacheClient, 15*time.Minute, 5, 60*time.Second)

	// Initialize services
	notificationService := service.NewNotificationService(repos.Notifications, mail, zlog)
	otpService := service.NewOTPService(repos.Pending, limiter, notificationService, cfg.OTPTTL, cfg.OTPDashboardTTL)
	authService := service.NewAuthService(repos, jwtService, otpService, notificationService, service.SuperAdminConfig{
		Email:       cfg.SuperAdminEmail,
		Password:    cfg.SuperAdminPassword,
		SecurityKey: cfg.SuperAdminSecurityKey,
	})
	propertyService := service.NewPropertyService(repos, notificationService, cacheClient)
	userService := service.NewUserService(repos, otpService, notificationService)
	leadService := service.NewLeadService(repos)
	favoriteService := service.NewFavoriteService(repos)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	userHandler := handler.NewUserHandler(userService)
	leadHandler := handler.NewLeadHandler(leadService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(
		e,
		cfg,
		metrics.NewHTTPMetrics(),
		authHandler,
		propertyHandler,
		userHandler,
		leadHandler,
		notificationHandler,
		favoriteHandler,
	)

	addr := ":" + cfg.ServerPort
	zlog.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Environment))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server start", zap.Error(err))
	}
}
