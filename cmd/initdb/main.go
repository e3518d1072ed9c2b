package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crm/internal/config"
	"crm/internal/database"
	"crm/internal/pkg/logger"
)

// initdb creates the database and tables, then exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("logger: %v", err)
	}

	if err := run(cfg.DB.DSN()); err != nil {
		logrus.Fatal(err)
	}
}

func run(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.EnsureDatabase(ctx, dsn); err != nil {
		return fmt.Errorf("ensure database failed: %w", err)
	}

	db, err := database.Connect(dsn, database.Pool{MaxOpenConns: 1})
	if err != nil {
		return fmt.Errorf("db connect failed: %w", err)
	}
	defer database.Close(db)

	if err := database.InitSchema(ctx, db); err != nil {
		return fmt.Errorf("schema init failed: %w", err)
	}

	leads, notes, err := rowCounts(ctx, db)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"leads": leads, "notes": notes}).Info("initdb completed")
	return nil
}

func rowCounts(ctx context.Context, db *gorm.DB) (leads, notes int64, err error) {
	if err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM leads").Scan(&leads).Error; err != nil {
		return 0, 0, fmt.Errorf("count leads: %w", err)
	}
	if err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM notes").Scan(&notes).Error; err != nil {
		return 0, 0, fmt.Errorf("count notes: %w", err)
	}
	return leads, notes, nil
}
