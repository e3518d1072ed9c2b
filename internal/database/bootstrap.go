package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

const (
	pgInvalidCatalogName = "3D000"
	pgDuplicateDatabase  = "42P04"

	maintenanceDatabase = "postgres"
)

// EnsureDatabase creates the target postgres database when the server reports
// it missing. SQLite DSNs are a no-op since the file is created on open.
func EnsureDatabase(ctx context.Context, dsn string) error {
	if !IsPostgres(dsn) {
		return nil
	}

	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err == nil {
		return conn.Close(ctx)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgInvalidCatalogName {
		return fmt.Errorf("connect to %q: %w", cfg.Database, err)
	}

	name := cfg.Database
	admin := cfg.Copy()
	admin.Database = maintenanceDatabase

	adminConn, err := pgx.ConnectConfig(ctx, admin)
	if err != nil {
		return fmt.Errorf("connect to maintenance database: %w", err)
	}
	defer adminConn.Close(ctx)

	var exists bool
	if err := adminConn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check database %q: %w", name, err)
	}
	if exists {
		return nil
	}

	if _, err := adminConn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateDatabase {
			return nil
		}
		return fmt.Errorf("create database %q: %w", name, err)
	}

	logrus.WithField("database", name).Info("Database created")
	return nil
}
