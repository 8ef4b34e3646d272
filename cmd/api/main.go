package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/coordination-audit/internal/api/http"
	"github.com/spec-kit/coordination-audit/internal/api/http/handlers"
	"github.com/spec-kit/coordination-audit/internal/config"
	"github.com/spec-kit/coordination-audit/internal/events"
	"github.com/spec-kit/coordination-audit/internal/observability"
	"github.com/spec-kit/coordination-audit/internal/persistence"
	"github.com/spec-kit/coordination-audit/internal/service"
	"github.com/spec-kit/coordination-audit/internal/worker"
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

	store, err := persistence.OpenDirectoryStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open directory store", zap.Error(err))
	}
	defer store.Close()

	policy, err := service.LoadAuditPolicy(cfg.Audit.PolicyFile)
	if err != nil {
		logger.Fatal("failed to load audit policy", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifier := worker.StartNotificationWorker(ctx, dispatcher, notifications, logger)
	defer notifier.Stop()

	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		Repo:       store.Repo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	if err := directoryService.Init(ctx); err != nil {
		logger.Warn("continuing with an empty directory", zap.Error(err))
	}

	auditService, err := service.NewAuditService(service.AuditDependencies{
		Directory:  directoryService,
		Policy:     policy,
		Location:   cfg.Audit.Location(),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to build audit service", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Audit.MaxUploadMiB << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthDependencies{
			ServiceName:      cfg.App.Name,
			Version:          cfg.App.Version,
			DirectoryBackend: cfg.Directory.Backend,
			Postgres:         store.Postgres,
			Redis:            store.Redis,
			Directory:        directoryService,
			Metrics:          metrics,
		}),
		Directory: handlers.NewDirectoryHandler(directoryService),
		Audit:     handlers.NewAuditHandler(auditService),
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
