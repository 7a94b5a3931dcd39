package services

import (
	"context"
	"time"

	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/models"
)

type DashboardService struct {
	repo *db.Repo
	now  func() time.Time
}

func NewDashboardService(repo *db.Repo) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Stats counts open loans due before today as overdue.
func (s *DashboardService) Stats(ctx context.Context) (*db.Stats, error) {
	return s.repo.CountStats(ctx, models.StartOfDay(s.now()))
}
