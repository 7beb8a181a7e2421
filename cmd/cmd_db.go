package main

import (
	"inventory-service/internal/service"
	"inventory-service/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

// inventory-service migrate up
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.db.Close()

		if err := store.MigrateUp(a.db); err != nil {
			return err
		}
		a.logger.Info("migrations applied")
		return nil
	},
}

var migrateDownSteps int

// inventory-service migrate down --steps N
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.db.Close()

		if err := store.MigrateDown(a.db, migrateDownSteps); err != nil {
			return err
		}
		a.logger.Info("migrations rolled back", zap.Int("steps", migrateDownSteps))
		return nil
	},
}

// inventory-service seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the sample Vegetables and Fruits inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := boot(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		if err := store.MigrateUp(a.db); err != nil {
			return err
		}
		dbStore := store.NewPostgresStore(a.db, a.logger)
		if err := dbStore.Reset(ctx); err != nil {
			return err
		}
		a.logger.Info("existing inventory cleared")

		categories := service.NewCategoryService(dbStore, dbStore, a.logger, nil)
		products := service.NewProductService(dbStore, dbStore, a.logger, nil)
		result, err := service.Seed(ctx, categories, products)
		if err != nil {
			return err
		}
		a.logger.Info("sample inventory seeded",
			zap.Int("categories", result.Categories),
			zap.Int("products", result.Products),
		)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
