// Package entrypoint wires the application together and runs the server.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/causeway-org/causeway/internal/auth"
	"github.com/causeway-org/causeway/internal/cache"
	"github.com/causeway-org/causeway/internal/config"
	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/database/campaigns"
	"github.com/causeway-org/causeway/internal/database/categories"
	"github.com/causeway-org/causeway/internal/database/donations"
	"github.com/causeway-org/causeway/internal/database/events"
	"github.com/causeway-org/causeway/internal/database/grants"
	"github.com/causeway-org/causeway/internal/database/media"
	"github.com/causeway-org/causeway/internal/database/menus"
	"github.com/causeway-org/causeway/internal/database/posts"
	"github.com/causeway-org/causeway/internal/database/programs"
	"github.com/causeway-org/causeway/internal/database/projects"
	http_controllers "github.com/causeway-org/causeway/internal/http"
	applog "github.com/causeway-org/causeway/internal/logger"
	"github.com/causeway-org/causeway/internal/scheduler"
	"github.com/causeway-org/causeway/internal/settingsstore"
	"github.com/causeway-org/causeway/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger *applog.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening on {host}:{port}", map[string]any{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down, waiting up to {timeout}", map[string]any{
		"timeout": timeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the HTTP listener so in-flight
	// requests can still enqueue work.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}

	logger.Info("server exiting", nil)
}

// Run wires every component together and serves until interrupted.
func Run(cfg *config.Config, version string) {
	minLevel, err := applog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger, err := applog.New(cfg.Log.Dir, minLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Info("starting causeway v{version}", map[string]any{"version": version})

	db, err := database.New(cfg.Database.Path, logger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database: {error}", map[string]any{"error": err.Error()})
		}
	}()

	// Repositories
	campaignRepo := campaigns.NewRepository(db)
	categoryRepo := categories.NewRepository(db)
	donationRepo := donations.NewRepository(db, campaignRepo)
	eventRepo := events.NewRepository(db)
	grantRepo := grants.NewRepository(db)
	mediaRepo := media.NewRepository(db)
	menuRepo := menus.NewRepository(db)
	postRepo := posts.NewRepository(db)
	programRepo := programs.NewRepository(db)
	projectRepo := projects.NewRepository(db)

	settings, err := settingsstore.New(db, logger)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	cacheStore, err := cache.New(cfg.Cache, logger)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			logger.Error("error closing cache: {error}", map[string]any{"error": err.Error()})
		}
	}()

	// Authentication
	authService := auth.NewService(db.DB, cfg.Auth, logger)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth, logger)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	authMiddleware := auth.NewMiddleware(authService, sessionManager, cfg.Auth.SecureCookies)

	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		logger.Notice("generated session secret, set AUTH_SESSION_SECRET to persist it", nil)
	}

	if hasUsers, _ := authService.HasUsers(); !hasUsers {
		logger.Notice("no users found, run 'causeway seed-admin' to create an administrator", nil)
	}

	// Background task queue and scheduler
	var taskClient *tasks.Client
	var sched *scheduler.Scheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, cfg.Tasks, logger)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error("error closing task client: {error}", map[string]any{"error": err.Error()})
			}
		}()

		updaters := map[string]tasks.StatusUpdater{
			"campaigns": campaignRepo,
			"events":    eventRepo,
			"grants":    grantRepo,
			"projects":  projectRepo,
		}
		taskClient.Register(
			tasks.NewStatusSweepQueue(updaters, logger),
			tasks.NewCleanupLogsQueue(logger),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		sched = scheduler.New(cfg.Scheduler, taskClient, cfg.Log.RetentionDays, logger)
		if err := sched.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Logger:         logger,
		Settings:       settings,
		Cache:          cacheStore,
		Campaigns:      campaignRepo,
		Categories:     categoryRepo,
		Donations:      donationRepo,
		Events:         eventRepo,
		Grants:         grantRepo,
		Media:          mediaRepo,
		Menus:          menuRepo,
		Posts:          postRepo,
		Programs:       programRepo,
		Projects:       projectRepo,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if sched != nil {
			sched.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, logger, onShutdown)
}
