package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/audit"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/repository/memory"
	"github.com/spec-kit/helpdesk-service/internal/repository/postgres"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/storage"
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

	var store repository.Store
	if pool := pg.PoolHandle(); pool != nil {
		store = postgres.NewStore(pool)
	} else {
		store = memory.NewStore()
	}

	blobs, err := storage.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		logger.Fatal("failed to init blob storage", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	recorder := audit.NewRecorder()
	dispatcher := events.NewDispatcher()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	revoker := auth.NewRevoker(redis.Client)
	authMiddleware := auth.NewMiddleware(tokens, revoker, store)

	ticketService := service.NewTicketService(store, recorder, dispatcher, blobs, logger)
	commentService := service.NewCommentService(store, ticketService)
	categoryService := service.NewCategoryService(store)
	articleService := service.NewArticleService(store, blobs, logger)
	attachmentService := service.NewAttachmentService(store, blobs, ticketService, articleService)
	adminUserService := service.NewAdminUserService(store)
	dashboardService := service.NewDashboardService(store)
	authService := service.NewAuthService(store, recorder, tokens, revoker, cfg.Auth.BcryptCost)

	notificationService := service.NewNotificationService(dispatcher, logger)
	notificationService.RegisterHandlers()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, commentService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		AdminUsers:     handlers.NewAdminUsersHandler(adminUserService),
		Articles:       handlers.NewArticlesHandler(articleService),
		Attachments:    handlers.NewAttachmentsHandler(attachmentService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
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
