package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/arthive/illustration-platform/internal/api/http"
	"github.com/arthive/illustration-platform/internal/api/http/handlers"
	"github.com/arthive/illustration-platform/internal/config"
	"github.com/arthive/illustration-platform/internal/events"
	"github.com/arthive/illustration-platform/internal/observability"
	"github.com/arthive/illustration-platform/internal/persistence"
	"github.com/arthive/illustration-platform/internal/repository"
	"github.com/arthive/illustration-platform/internal/service"
	"github.com/arthive/illustration-platform/internal/worker"
)

const serviceName = "auth-service"

func main() {
	cfg, err := config.Load(serviceName, "5001")
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
		dir := cfg.Postgres.MigrationsDir
		if dir == "" {
			dir = "migrations/auth"
		}
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	authService := service.NewAuthService(cfg, userRepo, dispatcher, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterAuthRoutes(app, httptransport.AuthRouteConfig{
		Health: handlers.NewHealthHandler(serviceName, cfg.App.Version, pg, redis),
		Auth:   handlers.NewAuthHandler(authService, serviceName),
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
