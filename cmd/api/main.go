package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/demand-service/internal/api/http"
	"github.com/spec-kit/demand-service/internal/api/http/handlers"
	"github.com/spec-kit/demand-service/internal/auth"
	"github.com/spec-kit/demand-service/internal/cache"
	"github.com/spec-kit/demand-service/internal/config"
	"github.com/spec-kit/demand-service/internal/events"
	"github.com/spec-kit/demand-service/internal/observability"
	"github.com/spec-kit/demand-service/internal/persistence"
	"github.com/spec-kit/demand-service/internal/repository"
	"github.com/spec-kit/demand-service/internal/service"
	"github.com/spec-kit/demand-service/internal/worker"
)

type repositories struct {
	demands   repository.DemandRepository
	documents repository.DocumentRepository
	analysts  repository.AnalystRepository
	history   repository.DemandHistoryRepository
	providers repository.ProviderRepository
}

// newRepositories selects Postgres when a pool exists, memory otherwise.
func newRepositories(pool *pgxpool.Pool) repositories {
	if pool == nil {
		store := repository.NewMemoryStore()
		return repositories{
			demands:   store.Demands(),
			documents: store.Documents(),
			analysts:  store.Analysts(),
			history:   store.History(),
			providers: store.Providers(),
		}
	}
	return repositories{
		demands:   repository.NewDemandRepository(pool),
		documents: repository.NewDocumentRepository(pool),
		analysts:  repository.NewAnalystRepository(pool),
		history:   repository.NewDemandHistoryRepository(pool),
		providers: repository.NewProviderRepository(pool),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to configure redis", zap.Error(err))
	}
	defer redis.Close()

	var dashboardCache service.DashboardCache
	if cfg.Cache.Enabled && redis.Enabled() {
		dashboardCache = cache.NewDashboardCache(redis.Client, cfg.Cache.DashboardTTL())
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	repos := newRepositories(pg.PoolHandle())

	authService := service.NewAuthService(*cfg, repos.analysts, logger)
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPass); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.analysts)

	demandService := service.NewDemandService(service.DemandDependencies{
		DemandRepo:   repos.demands,
		DocumentRepo: repos.documents,
		HistoryRepo:  repos.history,
		Dispatcher:   dispatcher,
		Cache:        dashboardCache,
		Logger:       logger,
	})
	distributionService := service.NewDistributionService(service.DistributionDependencies{
		DemandRepo:   repos.demands,
		DocumentRepo: repos.documents,
		AnalystRepo:  repos.analysts,
		HistoryRepo:  repos.history,
		Dispatcher:   dispatcher,
		Cache:        dashboardCache,
		Logger:       logger,
	})
	documentService := service.NewDocumentService(service.DocumentDependencies{
		DocumentRepo:  repos.documents,
		DemandRepo:    repos.demands,
		HistoryRepo:   repos.history,
		DemandService: demandService,
		Dispatcher:    dispatcher,
		Counter:       metrics,
		Logger:        logger,
	})
	dashboardService := service.NewDashboardService(repos.demands, repos.documents, dashboardCache, logger)
	providerService := service.NewProviderService(repos.providers)

	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))
	worker.StartEventMetrics(dispatcher, metrics)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Demands:        handlers.NewDemandsHandler(demandService, distributionService),
		Documents:      handlers.NewDocumentsHandler(documentService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Providers:      handlers.NewProvidersHandler(providerService),
		Metrics:        handlers.NewMetricsHandler(metrics),
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
