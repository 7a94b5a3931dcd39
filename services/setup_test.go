package services_test

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/lock"
	"Gin_postgres_redis_key_loans/services"
	"Gin_postgres_redis_key_loans/testutil"
)

type env struct {
	db     *gorm.DB
	repo   *db.Repo
	svc    *services.Services
	clock  *testutil.Clock
	locker *lock.LocalLocker
}

func newEnv(t *testing.T) *env {
	conn := testutil.NewTestDB(t)
	repo := db.NewRepo(conn)
	locker := lock.NewLocalLocker()
	clock := testutil.NewClock(time.Date(2026, 3, 10, 10, 30, 0, 0, time.Local))

	svc := services.New(repo, locker, testutil.Logger())
	svc.Loans.WithClock(clock.Now)
	svc.Dashboard.WithClock(clock.Now)
	return &env{db: conn, repo: repo, svc: svc, clock: clock, locker: locker}
}

func (e *env) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}
