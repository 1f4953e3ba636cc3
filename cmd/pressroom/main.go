package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pressroom/internal/config"
	"github.com/dmitrymomot/pressroom/internal/middleware"
	"github.com/dmitrymomot/pressroom/internal/seed"
	"github.com/dmitrymomot/pressroom/internal/store"
	"github.com/dmitrymomot/pressroom/pkg/db"
	"github.com/dmitrymomot/pressroom/pkg/logger"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "pressroom",
		Short:         "Blog publishing API",
		Long:          "Pressroom serves a blog post store over a JSON REST API,\nwith bulk import/export and RSS/Atom feed ingestion.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pressroom %s\n", version)
		},
	})

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			pool, err := db.Connect(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Migrate(ctx, pool, store.Migrations, cfg.Database.MigrationsTable, log)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load development fixtures (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, middleware.RequestIDExtractor())

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			pool, err := db.Connect(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool, store.Migrations, cfg.Database.MigrationsTable, log); err != nil {
				return err
			}
			return seed.Load(ctx, store.New(pool), log)
		},
	}
}
