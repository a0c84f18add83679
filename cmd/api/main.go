package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/thuanhighclean/cleaning-service/internal/api/http"
	"github.com/thuanhighclean/cleaning-service/internal/api/http/handlers"
	"github.com/thuanhighclean/cleaning-service/internal/auth"
	"github.com/thuanhighclean/cleaning-service/internal/config"
	"github.com/thuanhighclean/cleaning-service/internal/events"
	"github.com/thuanhighclean/cleaning-service/internal/observability"
	"github.com/thuanhighclean/cleaning-service/internal/persistence"
	"github.com/thuanhighclean/cleaning-service/internal/repository"
	"github.com/thuanhighclean/cleaning-service/internal/service"
	"github.com/thuanhighclean/cleaning-service/internal/storage"
	"github.com/thuanhighclean/cleaning-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init object store", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	orderRepo := repository.NewOrderRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	retentionLock := persistence.NewRetentionLock(redis, cfg.Retention.LockTTLSeconds)
	enforcer := service.NewRetentionEnforcer(
		orderRepo, store, retentionLock, dispatcher, logger, metrics, cfg.Retention.MaxOrders)

	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  orderRepo,
		Store:      store,
		Enforcer:   enforcer,
		Dispatcher: dispatcher,
		Logger:     logger,
		MaxGallery: cfg.Retention.MaxGalleryImages,
	})
	messageService := service.NewMessageService(messageRepo, dispatcher)
	authService := service.NewAuthService(cfg.Auth)
	auditService := service.NewAuditService(dispatcher, logger)
	auditService.RegisterHandlers()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	worker.StartRetentionSweeper(ctx, enforcer,
		time.Duration(cfg.Retention.SweepMinutes)*time.Minute, logger)

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Messages:       handlers.NewMessagesHandler(messageService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Admin:          handlers.NewAdminHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
