package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jyotish-lab/internal/storage/postgres"
)

const pgVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// RunPostgresMigrations applies every embedded PostgreSQL migration that is
// not yet recorded. Each file runs in its own transaction with its version row.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	all, err := Load(Postgres)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, pgVersionTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range pending(all, applied) {
		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
	}
	return nil
}
