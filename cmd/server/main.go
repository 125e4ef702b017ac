package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vund-dev/moda-backend/config"
	"github.com/vund-dev/moda-backend/internal/app/controller"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/internal/app/service"
	"github.com/vund-dev/moda-backend/internal/db"
	"github.com/vund-dev/moda-backend/internal/middleware"
	"github.com/vund-dev/moda-backend/internal/router"
	"github.com/vund-dev/moda-backend/internal/scheduler"
	"github.com/vund-dev/moda-backend/internal/storage"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"github.com/vund-dev/moda-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MODA Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (view counters)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize blob storage
	blobStore := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	imageRepo := repository.NewImageRepository(db.GetDB())
	attributeRepo := repository.NewAttributeRepository(db.GetDB())
	brandRepo := repository.NewBrandRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	imageService := service.NewImageService(imageRepo, blobStore)
	skuGenerator := service.NewSKUGenerator(attributeRepo, variantRepo)
	reconciler := service.NewVariantReconciler(variantRepo, skuGenerator, imageService)
	productService := service.NewProductService(db.GetDB(), productRepo, variantRepo, reconciler, imageService)
	brandService := service.NewBrandService(brandRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	attributeService := service.NewAttributeService(attributeRepo)
	viewService := service.NewViewService(productRepo)
	sweepService := service.NewSweepService(imageRepo, blobStore)
	exportService := service.NewExportService(productRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService, viewService)
	brandController := controller.NewBrandController(brandService)
	categoryController := controller.NewCategoryController(categoryService)
	attributeController := controller.NewAttributeController(attributeService)
	exportController := controller.NewExportController(exportService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the periodic jobs
	catalogScheduler := scheduler.NewCatalogScheduler(viewService, sweepService, cfg.Scheduler)
	if err := catalogScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog scheduler", err)
	}
	defer catalogScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		brandController,
		categoryController,
		attributeController,
		exportController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
