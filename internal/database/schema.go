package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL CHECK (name <> ''),
		address    TEXT NOT NULL CHECK (address <> ''),
		phone      VARCHAR(20) NOT NULL CHECK (phone <> ''),
		occupation VARCHAR(255) NOT NULL CHECK (occupation <> ''),
		status     VARCHAR(10) NOT NULL DEFAULT 'cold' CHECK (status IN ('hot', 'warm', 'cold')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id         BIGSERIAL PRIMARY KEY,
		lead_id    BIGINT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		content    TEXT NOT NULL CHECK (content <> ''),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_lead_id_created_at ON notes (lead_id, created_at DESC)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL CHECK (name <> ''),
		address    TEXT NOT NULL CHECK (address <> ''),
		phone      TEXT NOT NULL CHECK (phone <> ''),
		occupation TEXT NOT NULL CHECK (occupation <> ''),
		status     TEXT NOT NULL DEFAULT 'cold' CHECK (status IN ('hot', 'warm', 'cold')),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		lead_id    INTEGER NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		content    TEXT NOT NULL CHECK (content <> ''),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_lead_id_created_at ON notes (lead_id, created_at DESC)`,
}

// InitSchema creates the leads and notes tables if they are missing.
// Safe to run on every start.
func InitSchema(ctx context.Context, db *gorm.DB) error {
	stmts := sqliteSchema
	if Dialect(db) == DialectPostgres {
		stmts = postgresSchema
	}

	for _, stmt := range stmts {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	logrus.WithField("dialect", Dialect(db)).Info("Database schema ready")
	return nil
}
