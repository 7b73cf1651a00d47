package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	_ "oona/docs"
	"oona/internal/caching"
	"oona/internal/config"
	"oona/internal/dashboard"
	"oona/internal/handlers"
	"oona/internal/jobs/background"
	"oona/internal/middleware"
	"oona/internal/realtime"
	"oona/internal/repositories"
	"oona/internal/services"
	"oona/migrations"
	"oona/pkg/database"
)

const version = "1.0.0"

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(parseLevel(cfg.Server.LogLevel))
	loc, _ := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.ClosePool(pool)

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Redis
	cacheSvc, redisClient := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()

	// MinIO
	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.PublicURL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO storage: %v", err)
	}

	// Create repositories
	menuRepo := repositories.NewMenuItemRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Create services
	menuSvc := services.NewMenuService(menuRepo, cacheSvc, storage, cfg.Minio.Bucket)
	orderSvc := services.NewOrderService(orderRepo, loc)
	cartSvc := services.NewCartService(cacheSvc, menuSvc)
	checkoutSvc := services.NewCheckoutService(cartSvc, orderSvc)
	authSvc := services.NewAuthService(userRepo, cacheSvc, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := authSvc.EnsureStaffUser(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, "Administrator"); err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
	}

	// Realtime order notifications
	hub := realtime.NewHub()
	listener := realtime.NewPGListener(realtime.NewPoolConnector(pool), migrations.OrdersChannel, hub)
	go func() {
		if err := listener.Run(ctx); err != nil {
			log.Errorf("orders listener exited: %v", err)
		}
	}()

	dashOpts := dashboard.Options{SettleDelay: cfg.Dashboard.SettleDelay}
	sharedDashboard := dashboard.New(orderSvc, hub, dashOpts)
	if err := sharedDashboard.Start(ctx); err != nil {
		log.Warnf("initial dashboard load failed: %v", err)
	}
	defer sharedDashboard.Close()

	// Background jobs
	scheduler, err := background.NewJobScheduler(menuSvc, orderSvc, hub, cfg.Dashboard.ResyncInterval, loc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create handlers
	menuHandlers := handlers.NewMenuHandlers(menuSvc)
	cartHandlers := handlers.NewCartHandlers(cartSvc)
	orderHandlers := handlers.NewOrderHandlers(checkoutSvc, orderSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(sharedDashboard, orderSvc, hub, dashOpts)
	adminMenuHandlers := handlers.NewAdminMenuHandlers(menuSvc)
	healthHandlers := handlers.NewHealthHandlers(
		pool,
		cacheSvc,
		handlers.PingFunc(func(ctx context.Context) error {
			_, err := storage.BucketExists(ctx, cfg.Minio.Bucket)
			return err
		}),
		version,
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(parseLevel(cfg.Server.LogLevel))

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := versionMiddleware.VersionRoute(e, "v1")

	// Customer routes
	menu := v1.Group("/menu")
	menu.GET("", menuHandlers.BrowseMenu)
	menu.GET("/items/:id", menuHandlers.GetMenuItem)
	menu.GET("/cart", cartHandlers.GetCart)
	menu.DELETE("/cart", cartHandlers.ClearCart)
	menu.POST("/cart/items", cartHandlers.AddCartItem)
	menu.PATCH("/cart/items/:id", cartHandlers.UpdateCartItem)
	menu.DELETE("/cart/items/:id", cartHandlers.RemoveCartItem)
	menu.POST("/checkout", orderHandlers.Checkout)
	menu.GET("/success/:id", orderHandlers.GetConfirmation)

	// Staff routes
	v1.POST("/admin/login", authHandlers.Login)

	admin := v1.Group("/admin")
	admin.Use(middleware.JWTMiddleware(cfg.Auth.JWTSecret), middleware.RequireSession(authSvc))
	admin.POST("/logout", authHandlers.Logout)
	admin.GET("/session", authHandlers.Session)

	admin.GET("/dashboard", dashboardHandlers.GetDashboard)
	admin.GET("/dashboard/stream", dashboardHandlers.Stream)
	admin.PATCH("/orders/:id/status", dashboardHandlers.UpdateOrderStatus)
	admin.POST("/orders/reset", dashboardHandlers.ResetOrders)

	admin.GET("/menu", adminMenuHandlers.ListMenuItems)
	admin.POST("/menu", adminMenuHandlers.CreateMenuItem)
	admin.POST("/menu/images", adminMenuHandlers.UploadImage)
	admin.GET("/menu/:id/form", adminMenuHandlers.GetMenuItemForm)
	admin.PUT("/menu/:id", adminMenuHandlers.UpdateMenuItem)
	admin.DELETE("/menu/:id", adminMenuHandlers.DeleteMenuItem)
	admin.PATCH("/menu/:id/availability", adminMenuHandlers.SetAvailability)

	// Start server
	go func() {
		log.Infof("Oona server v%s starting on port %s", version, cfg.Server.Port)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Infof("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
}
