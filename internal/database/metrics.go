package database

import (
	"errors"

	"gorm.io/gorm"

	"crm/internal/monitoring"
)

func observe(operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		result := "ok"
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			result = "error"
		}
		monitoring.DatabaseQueries.WithLabelValues(operation, result).Inc()
	}
}

// registerMetrics counts every statement gorm runs, raw SQL included.
func registerMetrics(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().After("gorm:create").Register("crm:metrics_create", observe("create")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("crm:metrics_query", observe("query")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("crm:metrics_update", observe("update")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("crm:metrics_delete", observe("delete")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("crm:metrics_row", observe("row")); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("crm:metrics_exec", observe("exec"))
}
