package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"inventory-service/internal/config"
	"inventory-service/internal/logging"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "inventory-service",
	Short:         "Inventory API for products and categories",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running the binary without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// app holds what every subcommand needs: configuration, a logger and an open pool.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
}

// boot loads .env and configuration, builds the logger and connects to PostgreSQL.
func boot(ctx context.Context) (*app, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		return nil, err
	}
	if envErr != nil {
		logger.Debug(".env file not loaded, relying on process environment", zap.Error(envErr))
	}
	zap.ReplaceGlobals(logger)

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("database connection established",
		zap.String("host", cfg.Postgres.Host),
		zap.String("dbname", cfg.Postgres.DBName),
		zap.Int("max_open_conns", cfg.Postgres.MaxOpenConns),
	)

	return &app{cfg: cfg, logger: logger, db: db}, nil
}
