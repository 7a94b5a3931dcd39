package db

import (
	"context"
	"time"

	"Gin_postgres_redis_key_loans/models"
)

type Stats struct {
	Rooms          int64 `json:"rooms"`
	Borrowers      int64 `json:"borrowers"`
	Loans          int64 `json:"loans"`
	Keys           int64 `json:"keys"`
	LentKeys       int64 `json:"lentKeys"`
	OpenLoans      int64 `json:"openLoans"`
	OverdueLoans   int64 `json:"overdueLoans"`
	RoomsOccupied  int64 `json:"roomsOccupied"`
	RoomsNoKey     int64 `json:"roomsNoKey"`
	RoomsAvailable int64 `json:"roomsAvailable"`
}

// CountStats aggregates the dashboard counters. overdueBefore is the start
// of the current day: open loans due before it are overdue.
func (r *Repo) CountStats(ctx context.Context, overdueBefore time.Time) (*Stats, error) {
	db := r.DB.WithContext(ctx)
	var s Stats

	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&s.Rooms, &models.Room{}, "", nil},
		{&s.Borrowers, &models.Borrower{}, "", nil},
		{&s.Loans, &models.Loan{}, "", nil},
		{&s.Keys, &models.Key{}, "", nil},
		{&s.LentKeys, &models.Key{}, "available = ?", []any{false}},
		{&s.OpenLoans, &models.Loan{}, "returned_at IS NULL", nil},
		{&s.OverdueLoans, &models.Loan{}, "returned_at IS NULL AND due_at < ?", []any{overdueBefore}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Table(models.RoomTable+" r").
		Where("NOT EXISTS (SELECT 1 FROM "+models.KeyTable+" k WHERE k.room_id = r.id)").
		Count(&s.RoomsNoKey).Error; err != nil {
		return nil, err
	}
	if err := db.Table(models.RoomTable+" r").
		Where("EXISTS (SELECT 1 FROM "+models.KeyTable+" k WHERE k.room_id = r.id AND k.available = ?)", false).
		Count(&s.RoomsOccupied).Error; err != nil {
		return nil, err
	}
	s.RoomsAvailable = s.Rooms - s.RoomsNoKey - s.RoomsOccupied
	return &s, nil
}
