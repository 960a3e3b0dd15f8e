package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/wallboard-service/internal/api/http"
	"github.com/spec-kit/wallboard-service/internal/api/http/handlers"
	"github.com/spec-kit/wallboard-service/internal/auth"
	"github.com/spec-kit/wallboard-service/internal/config"
	"github.com/spec-kit/wallboard-service/internal/events"
	"github.com/spec-kit/wallboard-service/internal/observability"
	"github.com/spec-kit/wallboard-service/internal/persistence"
	"github.com/spec-kit/wallboard-service/internal/repository"
	"github.com/spec-kit/wallboard-service/internal/service"
	"github.com/spec-kit/wallboard-service/internal/worker"
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

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	registry := repository.NewAgentRegistry()

	var sessions *auth.SessionStore
	if cfg.Auth.SessionStoreEnabled {
		sessions = auth.NewSessionStore(redis.Client)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	directoryService := service.NewDirectoryService(accountRepo, teamRepo)
	presenceService := service.NewPresenceService(registry, dispatcher)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: accountRepo,
		Registry:    registry,
		Sessions:    sessions,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessions, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	usersHandler := handlers.NewUsersHandler(directoryService)
	agentsHandler := handlers.NewAgentsHandler(presenceService)
	authHandler := handlers.NewAuthHandler(authService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Agents:         agentsHandler,
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
		Sessions:       sessions,
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
