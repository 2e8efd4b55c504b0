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
	"github.com/arthive/illustration-platform/internal/authgate"
	"github.com/arthive/illustration-platform/internal/config"
	"github.com/arthive/illustration-platform/internal/events"
	"github.com/arthive/illustration-platform/internal/observability"
	"github.com/arthive/illustration-platform/internal/persistence"
	"github.com/arthive/illustration-platform/internal/repository"
	"github.com/arthive/illustration-platform/internal/service"
	"github.com/arthive/illustration-platform/internal/storage"
	"github.com/arthive/illustration-platform/internal/worker"
)

const serviceName = "image-service"

func main() {
	cfg, err := config.Load(serviceName, "5003")
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
			dir = "migrations/image"
		}
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store, staticDir, err := buildStorage(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	imageRepo := repository.NewImageRepository(pg.PoolHandle())
	imageService := service.NewImageService(imageRepo, store, dispatcher, logger)

	cache := authgate.NewTokenCache(redis.Client, cfg.AuthClient.CacheTTL())
	gate := authgate.NewGate(cfg.AuthClient, cache, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterImageRoutes(app, httptransport.ImageRouteConfig{
		Health:    handlers.NewHealthHandler(serviceName, cfg.App.Version, pg, redis),
		Images:    handlers.NewImagesHandler(imageService),
		Gate:      gate,
		StaticDir: staticDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (storage.ObjectStorage, string, error) {
	switch cfg.Backend {
	case "s3":
		store, err := storage.NewMinioStorage(cfg)
		if err != nil {
			return nil, "", err
		}
		if err := store.EnsureReady(ctx); err != nil {
			return nil, "", err
		}
		logger.Info("using s3 storage backend", zap.String("bucket", cfg.Bucket))
		return store, "", nil
	default:
		store := storage.NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
		if err := store.EnsureReady(ctx); err != nil {
			return nil, "", err
		}
		logger.Info("using local storage backend", zap.String("dir", cfg.LocalDir))
		return store, store.Dir(), nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
