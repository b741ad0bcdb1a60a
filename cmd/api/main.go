package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/auth"
	"github.com/marcotuliovd/betimfc-v0/internal/categories"
	"github.com/marcotuliovd/betimfc-v0/internal/config"
	"github.com/marcotuliovd/betimfc-v0/internal/db"
	"github.com/marcotuliovd/betimfc-v0/internal/logging"
	"github.com/marcotuliovd/betimfc-v0/internal/mail"
	"github.com/marcotuliovd/betimfc-v0/internal/memberships"
	"github.com/marcotuliovd/betimfc-v0/internal/orders"
	"github.com/marcotuliovd/betimfc-v0/internal/payment"
	"github.com/marcotuliovd/betimfc-v0/internal/products"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		logger.Info("schema applied")
	}

	mailer := newMailer(cfg, logger)
	payments := payment.NewSimulator(cfg.PaymentDelay(), logger.Named("payment"))

	// Repos
	userRepo := auth.NewUserRepo(pool)
	prodRepo := products.NewRepo(pool)
	catRepo := categories.NewRepo(pool)
	subRepo := memberships.NewRepo(pool)
	orderRepo := orders.NewRepo(pool)

	// Handlers
	authHandler := auth.NewHandler(auth.Dependencies{
		Cfg:    cfg,
		Users:  userRepo,
		Mailer: mailer,
		Log:    logger.Named("auth"),
	})
	prodHandler := products.NewHandler(prodRepo, logger.Named("products"))
	catHandler := categories.NewHandler(catRepo, logger.Named("categories"))
	memberHandler := memberships.NewHandler(memberships.Dependencies{
		Repo:     subRepo,
		Users:    userRepo,
		Payments: payments,
		Log:      logger.Named("memberships"),
	})
	orderHandler := orders.NewHandler(orders.Dependencies{
		Orders:   orderRepo,
		Catalog:  prodRepo,
		Users:    userRepo,
		Payments: payments,
		Mailer:   mailer,
		Log:      logger.Named("orders"),
	})

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.GinLogger(logger.Named("http")), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	}

	// Catalog
	api.GET("/categories", catHandler.ListPublic)
	api.GET("/products", prodHandler.ListPublic)
	api.GET("/products/:id", prodHandler.GetPublic)

	// Club and checkout
	api.GET("/memberships/plans", memberHandler.Plans)
	api.POST("/memberships", memberHandler.Subscribe)
	api.POST("/orders", orderHandler.Place)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newMailer(cfg config.Config, logger *zap.Logger) mail.Mailer {
	if cfg.MailDriver == "smtp" {
		return mail.NewSMTPMailer(mail.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	}
	return mail.NewLogMailer(logger.Named("mail"))
}
