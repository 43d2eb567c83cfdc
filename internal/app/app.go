package app

import (
	"context"
	"fmt"
	"time"

	"academy_backend/database"
	"academy_backend/internal/config"
	"academy_backend/internal/email"
	"academy_backend/internal/handlers"
	"academy_backend/internal/logger"
	"academy_backend/internal/middleware"
	"academy_backend/internal/routes"
	"academy_backend/internal/services"
	"academy_backend/internal/validator"
	"academy_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("failed to run migrations", "error", err)
	}

	serviceContainer := initializeServices(cfg)

	if err := serviceContainer.AuthService.EnsureFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, serviceContainer)

	if cfg.Billing.WorkerEnabled {
		worker := workers.NewBillingWorker(
			gormDB,
			serviceContainer.InvoiceService,
			serviceContainer.SubscriptionService,
			time.Duration(cfg.Billing.WorkerInterval)*time.Minute,
		)
		worker.Start(context.Background())
		logger.Info("billing worker started", "interval_minutes", cfg.Billing.WorkerInterval)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	emailProvider := email.NewProvider(cfg)
	return services.NewServiceContainer(cfg, emailProvider)
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	return handlers.NewAppHandlers(serviceContainer, customValidator)
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
