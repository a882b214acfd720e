// Command discovery inventories the jobs database and its PostgREST
// surface and prints a report of tables, views, columns and reachable
// endpoints. Run it against a fresh backend before configuring the board.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/zenseeker0/jobscraps-frontend/internal/config"
	"github.com/zenseeker0/jobscraps-frontend/internal/discovery"
	"github.com/zenseeker0/jobscraps-frontend/shared/logger"
	"github.com/zenseeker0/jobscraps-frontend/shared/postgresql"
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

	defaultConfigPath := os.Getenv("BOARD_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/board-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	outputPath := flag.String("output", "", "Write the report to a file instead of stdout")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall discovery timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateDiscoveryConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Logs go to stderr so the report stays clean on stdout
	appLogger, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbClient, err := postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	inv := discovery.New(dbClient, cfg.PostgREST.BaseURL, appLogger.Logger)
	report, err := inv.Run(ctx)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	report.Write(out)

	appLogger.Info("Discovery complete",
		slog.Int("relations", len(report.Relations)),
		slog.Int("endpoints", len(report.Endpoints)),
	)
	return nil
}
