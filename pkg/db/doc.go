// Package db manages the PostgreSQL connection pool and schema
// migrations.
//
// Connect builds a pgx pool from Config (populated via env tags) and
// retries transient startup failures:
//
//	pool, err := db.Connect(ctx, cfg.Database)
//
// Migrate applies goose migrations from an embedded filesystem:
//
//	err = db.Migrate(ctx, pool, store.Migrations, cfg.Database.MigrationsTable, log)
//
// Healthcheck and Shutdown return closures for the readiness endpoint and
// the graceful-shutdown hook list.
package db
