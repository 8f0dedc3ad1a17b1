package main

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cresenventures/storefront/internal/auth"
	"github.com/cresenventures/storefront/internal/cart"
	"github.com/cresenventures/storefront/internal/catalog"
	"github.com/cresenventures/storefront/internal/checkout"
	"github.com/cresenventures/storefront/internal/config"
	"github.com/cresenventures/storefront/internal/db"
	"github.com/cresenventures/storefront/internal/mail"
	"github.com/cresenventures/storefront/internal/orders"
	"github.com/cresenventures/storefront/internal/payment"
	"github.com/cresenventures/storefront/internal/shipping"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	pool, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	var mailer mail.Mailer = mail.NopMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	} else {
		logger.Warn("SMTP not configured, order emails disabled")
	}

	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer:         cfg.JWTIssuer,
		AccessSecret:   cfg.JWTAccessSecret,
		RefreshSecret:  cfg.JWTRefreshSecret,
		AccessTTLMin:   cfg.AccessTokenTTLMin,
		RefreshTTLDays: cfg.RefreshTokenTTLDays,
	})

	// Repos
	userRepo := auth.NewUserRepo(pool)
	sessionRepo := auth.NewSessionRepo(pool)
	cartRepo := cart.NewRepo(pool)
	shippingRepo := shipping.NewRepo(pool)
	orderRepo := orders.NewRepo(pool)

	// One checkout session per shopper, persisting through the order repo.
	sessions := checkout.NewManager(orderRepo, shipping.ComputeFee)

	gateway := payment.NewGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	if !gateway.Configured() {
		logger.Warn("razorpay keys missing, payments disabled")
	}

	authHandler := auth.NewHandler(auth.Dependencies{
		Cfg:      cfg,
		JWT:      jwtMgr,
		Users:    userRepo,
		Sessions: sessionRepo,
		Carts:    cartRepo,
		Log:      logger,
	})
	cartHandler := cart.NewHandler(cartRepo, logger)
	shippingHandler := shipping.NewHandler(shippingRepo)
	orderHandler := orders.NewHandler(orders.Dependencies{
		Repo:     orderRepo,
		Users:    userRepo,
		Sessions: sessions,
		Mailer:   mailer,
		Log:      logger,
	})
	paymentHandler := payment.NewHandler(payment.Dependencies{
		Gateway:  gateway,
		Orders:   orderRepo,
		Carts:    cartRepo,
		Sessions: sessions,
		Mailer:   mailer,
		Log:      logger,
	})

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/google-login", authHandler.GoogleLogin)
		api.POST("/refresh", authHandler.Refresh)
		api.POST("/logout", authHandler.Logout)

		api.GET("/products", catalog.ListProducts)

		api.POST("/get-cart", cartHandler.GetCart)
		api.POST("/save-cart", cartHandler.SaveCart)

		api.POST("/save-shipping", shippingHandler.SaveShipping)
		api.POST("/save-attempted-order", orderHandler.SaveAttemptedOrder)
		api.GET("/get-latest-attempted-order", orderHandler.GetLatestAttemptedOrder)
		api.GET("/get-orders", orderHandler.GetOrders)

		api.GET("/get-razorpay-key", paymentHandler.GetKey)
		api.POST("/create-razorpay-order", paymentHandler.CreateRazorpayOrder)
		api.POST("/confirm-order", paymentHandler.ConfirmOrder)
	}

	protected := api.Group("/")
	protected.Use(auth.AuthMiddleware(jwtMgr))
	{
		protected.GET("/me", authHandler.Me)

		adminOnly := protected.Group("/")
		adminOnly.Use(auth.RequireRole("admin"))
		adminOnly.GET("/admin-orders", orderHandler.AdminListOrders)
		adminOnly.POST("/admin-update-shipping", orderHandler.AdminUpdateShipping)
	}

	mountStatic(r, cfg.StaticDir)

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// mountStatic serves the built frontend bundle; unknown non-API paths fall
// back to index.html so client-side routes survive a reload.
func mountStatic(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	r.Static("/assets", filepath.Join(dir, "assets"))
	r.Static("/images", filepath.Join(dir, "images"))
	r.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))

	index := filepath.Join(dir, "index.html")
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
			return
		}
		c.File(index)
	})
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	conf := zap.NewProductionConfig()
	conf.DisableStacktrace = true
	return conf.Build()
}
