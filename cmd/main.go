package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteenhub/internal/caching"
	"canteenhub/internal/config"
	"canteenhub/internal/handlers"
	"canteenhub/internal/jobs/background"
	appmiddleware "canteenhub/internal/middleware"
	"canteenhub/internal/repositories"
	"canteenhub/internal/services"
	"canteenhub/pkg/database"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisClient := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	cacheService := caching.NewRedisCacheService(redisClient)

	minioService, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to connect to object store: %v", err)
	}
	for _, bucket := range []string{cfg.BadgeBucket, cfg.PhotoBucket, cfg.ReportBucket} {
		if err := minioService.EnsureBucketExists(ctx, bucket); err != nil {
			log.Fatalf("Failed to ensure bucket %s: %v", bucket, err)
		}
	}

	employeeRepo := repositories.NewEmployeeRepo(pool)
	menuItemRepo := repositories.NewMenuItemRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)

	notificationService := services.NewNotificationService(cfg.WebhookURL, cfg.AlertEmail, cfg.SenderEmail)
	employeeService := services.NewEmployeeService(employeeRepo, cacheService, minioService, cfg.BadgeBucket, cfg.SessionTTL)
	menuService := services.NewMenuService(menuItemRepo, cacheService, minioService, cfg.PhotoBucket)
	cartService := services.NewCartService(menuItemRepo, cacheService, cfg.CartTTL)
	orderService := services.NewOrderService(pool, orderRepo, orderItemRepo, menuItemRepo, employeeRepo, cacheService, notificationService)
	reportService := services.NewReportService(orderRepo, minioService, cfg.ReportBucket)

	scheduler, err := background.NewJobScheduler(menuService, reportService, notificationService, cfg.LowStockThreshold)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("WARN: scheduler shutdown: %v", err)
		}
	}()

	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	menuHandler := handlers.NewMenuHandler(menuService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(pool, redisClient)
	authHandler := handlers.NewAuthHandler(cfg.JWTSecret, cfg.AdminUsername, cfg.AdminPassword)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(appmiddleware.VersionHeader)

	// Health
	e.GET("/health", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/health/detailed", healthHandler.Detailed)

	// Kiosk flow: verify first, everything else rides on the session token.
	e.POST("/verify", employeeHandler.Verify)
	e.GET("/menu", menuHandler.AvailableMenu)
	e.GET("/menu/:id", menuHandler.GetItem)
	e.GET("/menu/:id/photo", menuHandler.PhotoURL)

	session := e.Group("", appmiddleware.RequireSession(cacheService))
	session.GET("/me", employeeHandler.Me)
	session.POST("/logout", employeeHandler.Logout)
	session.GET("/cart", cartHandler.View)
	session.POST("/cart/items", cartHandler.AddItem)
	session.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	session.DELETE("/cart", cartHandler.Clear)
	session.POST("/orders", orderHandler.PlaceOrder)
	session.GET("/orders", orderHandler.ListMyOrders)
	session.GET("/orders/:id", orderHandler.GetOrder)

	// Admin
	e.POST("/admin/login", authHandler.Login)
	admin := e.Group("/admin", appmiddleware.AdminJWT(cfg.JWTSecret), appmiddleware.RequireAdminRole)
	admin.POST("/employees", employeeHandler.CreateEmployee)
	admin.GET("/employees", employeeHandler.ListEmployees)
	admin.GET("/employees/:id", employeeHandler.GetEmployee)
	admin.PUT("/employees/:id", employeeHandler.UpdateEmployee)
	admin.DELETE("/employees/:id", employeeHandler.DeleteEmployee)
	admin.POST("/employees/:id/wallet", employeeHandler.TopUpWallet)
	admin.GET("/employees/:id/badge", employeeHandler.BadgeURL)

	admin.POST("/menu", menuHandler.CreateItem)
	admin.GET("/menu", menuHandler.ListItems)
	admin.GET("/menu/search", menuHandler.Search)
	admin.PUT("/menu/:id", menuHandler.UpdateItem)
	admin.DELETE("/menu/:id", menuHandler.DeleteItem)
	admin.POST("/menu/:id/restock", menuHandler.Restock)
	admin.POST("/menu/:id/photo", menuHandler.AttachPhoto)

	admin.GET("/orders", orderHandler.ListByDate)
	admin.DELETE("/orders", orderHandler.PurgeByDate)
	admin.GET("/reports/daily", reportHandler.ExportDaily)
	admin.POST("/reports/daily/archive", reportHandler.ArchiveDaily)
	admin.GET("/reports/daily/summary", reportHandler.Summary)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: server shutdown: %v", err)
	}
}
