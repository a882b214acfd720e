package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/gateway"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/handler"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/router"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/service"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/session"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/store"
	"github.com/zenseeker0/jobscraps-frontend/internal/config"
	"github.com/zenseeker0/jobscraps-frontend/shared/logger"
	"github.com/zenseeker0/jobscraps-frontend/shared/postgrest"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("BOARD_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/board-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateBoardConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting board service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// Initialize PostgREST client
	apiClient, err := postgrest.NewClient(&postgrest.Config{
		BaseURL: cfg.PostgREST.BaseURL,
		Timeout: cfg.PostgREST.Timeout,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgREST client: %w", err)
	}

	appLogger.Info("PostgREST client initialized",
		slog.String("base_url", cfg.PostgREST.BaseURL),
	)

	gw := gateway.New(apiClient, gateway.Config{
		RowLimit:        cfg.UI.MaxVisibleJobs,
		ExportBatchSize: cfg.UI.ExportBatchSize,
		DetailTimeout:   cfg.PostgREST.DetailTimeout,
	}, appLogger.Logger)

	sessions := session.NewManager(cfg.Session.Path, cfg.Session.MaxAge, appLogger.Logger)

	svc := service.New(gw, store.New(), service.Config{
		DefaultView:           cfg.PostgREST.JobsView,
		AvailableViews:        cfg.PostgREST.AvailableViews,
		MaxVisibleJobs:        cfg.UI.MaxVisibleJobs,
		LargeDatasetThreshold: cfg.UI.LargeDatasetThreshold,
		MaxExportSize:         cfg.UI.MaxExportSize,
		SearchDebounce:        cfg.UI.SearchDebounce,
	}, sessions, appLogger.Logger)

	// Restore the previous workspace and fetch the initial job set. A dead
	// backend at startup is fatal; later failures degrade per request.
	svc.RestoreSession()
	loadCtx, loadCancel := context.WithTimeout(context.Background(), cfg.PostgREST.Timeout+5*time.Second)
	err = svc.Load(loadCtx)
	loadCancel()
	if err != nil {
		return fmt.Errorf("failed initial load: %w", err)
	}

	// Periodic session autosave
	autosave := initAutosave(cfg.Session.AutosaveInterval, svc, appLogger.Logger)
	if autosave != nil {
		autosave.Start()
	}

	// Initialize router
	r := initRouter(cfg.App.Environment, appLogger.Logger, svc)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("Board service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	if autosave != nil {
		autosave.Stop()
	}
	if err := svc.SaveSession(); err != nil {
		appLogger.Warn("Failed to save session on shutdown",
			slog.Any("error", err),
		)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initAutosave schedules periodic session snapshots. Returns nil when
// autosave is disabled.
func initAutosave(interval time.Duration, svc *service.Service, logger *slog.Logger) *cron.Cron {
	if interval <= 0 {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if err := svc.SaveSession(); err != nil {
			logger.Warn("Session autosave failed",
				slog.Any("error", err),
			)
		}
	})
	if err != nil {
		logger.Warn("Failed to schedule session autosave",
			slog.Any("error", err),
		)
		return nil
	}

	logger.Info("Session autosave scheduled",
		slog.Duration("interval", interval),
	)
	return c
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(environment string, logger *slog.Logger, svc *service.Service) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	handlerDeps := &handler.Dependencies{
		Logger: logger,
		Board:  svc,
	}

	return router.SetupRouter(handlerDeps)
}
