package migrations

import (
	"context"
	"errors"
	"fmt"

	chstore "jyotish-lab/internal/storage/clickhouse"
)

const chVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    String,
		applied_at DateTime DEFAULT now()
	) ENGINE = MergeTree()
	ORDER BY version`

// RunClickhouseMigrations creates the database named in dsn if needed, applies
// pending migrations one statement at a time and returns a connection to it.
func RunClickhouseMigrations(ctx context.Context, dsn string) (_ *chstore.Conn, err error) {
	opts, err := chstore.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db := opts.Auth.Database
	if db == "" {
		return nil, errors.New("clickhouse dsn names no database")
	}

	admin, err := chstore.NewConn(ctx, dsn, chstore.WithDatabase(""))
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse admin: %w", err)
	}
	err = admin.Exec(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", db))
	admin.Close()
	if err != nil {
		return nil, fmt.Errorf("create database %s: %w", db, err)
	}

	conn, err := chstore.NewConn(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			conn.Close()
		}
	}()

	all, err := Load(ClickHouse)
	if err != nil {
		return nil, err
	}
	if err := conn.Exec(ctx, chVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := chApplied(ctx, conn)
	if err != nil {
		return nil, err
	}

	for _, m := range pending(all, applied) {
		for _, stmt := range SplitStatements(m.SQL) {
			if err := conn.Exec(ctx, stmt); err != nil {
				return nil, fmt.Errorf("apply migration %s: %w", m.Version, err)
			}
		}
		if err := conn.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			return nil, fmt.Errorf("record migration %s: %w", m.Version, err)
		}
	}
	return conn, nil
}

func chApplied(ctx context.Context, conn *chstore.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
