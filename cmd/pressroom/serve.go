package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pressroom/internal/config"
	"github.com/dmitrymomot/pressroom/internal/feed"
	"github.com/dmitrymomot/pressroom/internal/handler"
	"github.com/dmitrymomot/pressroom/internal/middleware"
	"github.com/dmitrymomot/pressroom/internal/store"
	"github.com/dmitrymomot/pressroom/pkg/db"
	"github.com/dmitrymomot/pressroom/pkg/health"
	"github.com/dmitrymomot/pressroom/pkg/logger"
)

func serveCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
	return cmd
}

func serve(baseCtx context.Context, cfg config.Config, skipMigrations bool) error {
	log := logger.New(cfg.LogLevel, middleware.RequestIDExtractor())

	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}

	if !skipMigrations {
		if err := db.Migrate(ctx, pool, store.Migrations, cfg.Database.MigrationsTable, log); err != nil {
			pool.Close()
			return err
		}
	}

	st := store.New(pool)
	feeds := feed.New(st, feed.NewHTTPParser(cfg.Feed.FetchTimeout), feed.WithLogger(log))

	h := handler.New(st, feeds, log)
	router := h.Router(handler.Config{
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		RequestTimeout:   cfg.HTTP.RequestTimeout,
	}, health.Checks{
		"postgres": db.Healthcheck(pool),
	})

	var scheduler *feed.Scheduler
	if cfg.Feed.RefreshSchedule != "" && len(cfg.Feed.RefreshURLs) > 0 {
		scheduler, err = feed.NewScheduler(feeds, cfg.Feed.RefreshSchedule,
			cfg.Feed.RefreshURLs, cfg.Feed.RefreshAuthorID, cfg.Feed.RefreshCategoryID, log)
		if err != nil {
			pool.Close()
			return err
		}
		scheduler.Start()
		log.Info("feed refresh scheduled",
			slog.String("schedule", cfg.Feed.RefreshSchedule),
			slog.Int("feeds", len(cfg.Feed.RefreshURLs)),
		)
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		pool.Close()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := db.Shutdown(pool)(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}
