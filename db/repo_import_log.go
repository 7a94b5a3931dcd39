package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_key_loans/models"
)

func (r *Repo) LogImport(ctx context.Context, entry *models.ImportLog) error {
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert import log: %w", err)
	}
	return nil
}

func (r *Repo) ListImportLogs(ctx context.Context, kind string, limit int) ([]models.ImportLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var logs []models.ImportLog
	err := q.Find(&logs).Error
	return logs, err
}
