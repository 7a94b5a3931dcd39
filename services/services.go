// Package services holds the registries, the loan lifecycle and the bulk
// import on top of the entity store.
package services

import (
	"log/slog"

	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/lock"
)

type Services struct {
	Rooms     *RoomService
	Borrowers *BorrowerService
	Loans     *LoanService
	Imports   *ImportService
	Dashboard *DashboardService
}

func New(repo *db.Repo, locker lock.Locker, log *slog.Logger) *Services {
	rooms := NewRoomService(repo, log)
	borrowers := NewBorrowerService(repo, log)
	return &Services{
		Rooms:     rooms,
		Borrowers: borrowers,
		Loans:     NewLoanService(repo, log),
		Imports:   NewImportService(repo, rooms, borrowers, locker, log),
		Dashboard: NewDashboardService(repo),
	}
}
