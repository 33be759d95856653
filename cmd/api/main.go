package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chai-adda-pos/internal/cache"
	"chai-adda-pos/internal/config"
	"chai-adda-pos/internal/handler"
	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/internal/service"
	"chai-adda-pos/internal/ws"
	"chai-adda-pos/pkg/database"
	"chai-adda-pos/pkg/jwt"
	"chai-adda-pos/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLog, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if err := run(cfg, zapLog); err != nil {
		zapLog.Error("server stopped", zap.Error(err))
		zapLog.Sync()
		os.Exit(1)
	}
	zapLog.Sync()
}

// run owns every resource it opens and releases them on return, error or not.
func run(cfg *config.Config, zapLog *zap.Logger) error {
	// 2. Setup Database
	db, err := database.Connect(cfg.DatabaseOptions(), zapLog)
	if err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	defer database.Close(db)

	// Auto Migrate (use a dedicated migration tool once the schema settles)
	if err := model.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 3. Report cache, Redis when configured
	var reportCache cache.ReportCache = cache.NoopReportCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			zapLog.Warn("redis unavailable, report cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			redisCache.Close()
		} else {
			reportCache = redisCache
			defer redisCache.Close()
		}
	}

	// 4. Setup WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := ws.NewHub(zapLog.Named("ws"))
	go wsHub.Run(hubCtx)

	// 5. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	storeRepo := repository.NewStoreRepo(db)
	productRepo := repository.NewProductRepo(db)
	materialRepo := repository.NewRawMaterialRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	accountRepo := repository.NewAccountRepo(db)
	ledgerRepo := repository.NewLedgerRepo()
	reportRepo := repository.NewReportRepo(db)

	authService := service.NewAuthService(storeRepo, tokens)
	// Writes publish through the cache so reports never outlive the data they summarize.
	events := service.WithReportInvalidation(wsHub, reportCache, zapLog.Named("reports"))

	invService := service.NewInventoryService(productRepo, materialRepo, reportRepo, events)
	orderService := service.NewOrderService(db, orderRepo, productRepo, ledgerRepo, reportRepo, events)
	ledgerService := service.NewLedgerService(db, accountRepo, ledgerRepo, reportRepo, events)
	reportService := service.NewReportService(reportRepo, reportCache, cfg.Reports.CacheTTL, zapLog.Named("reports"))

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, zapLog),
		Inventory: handler.NewInventoryHandler(invService, zapLog),
		Orders:    handler.NewOrderHandler(orderService, zapLog),
		Ledger:    handler.NewLedgerHandler(ledgerService, zapLog),
		Reports:   handler.NewReportHandler(reportService, zapLog, cfg.Reports.QueryTimeout, cfg.Reports.DefaultDays),
		Hub:       wsHub,
		Tokens:    tokens,
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler(zapLog),
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 7. Routes
	handler.RegisterRoutes(app, handlers)

	// 8. Graceful Shutdown
	listenErr := make(chan error, 1)
	go func() {
		zapLog.Info("server listening", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		listenErr <- app.Listen(":" + cfg.App.Port)
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	zapLog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zapLog.Error("server forced to shutdown", zap.Error(err))
	}
	stopHub()

	zapLog.Info("server exited")
	return nil
}
