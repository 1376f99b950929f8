package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrations ship embedded in the binary so `opsdesk migrate` and the test
// suites never depend on files on disk.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the schema up to the latest version. It is safe to
// run on every startup; goose skips versions already applied.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	// goose works over database/sql, so borrow a stdlib view of the pool.
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	slog.Info("schema up to date", "version", version)

	return nil
}
