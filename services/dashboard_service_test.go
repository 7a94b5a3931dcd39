package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_key_loans/services"
)

func TestDashboardService_Stats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	keyA, keyB := seed(t, e)
	_, err := e.svc.Rooms.CreateRoom(ctx, services.RoomInput{Nom: "C"})
	require.NoError(t, err)

	_, err = e.svc.Loans.OpenLoan(ctx, services.OpenLoanInput{KeyCode: keyA, Matricule: "M1", DueDate: "2026-03-10"})
	require.NoError(t, err)
	l, err := e.svc.Loans.OpenLoan(ctx, services.OpenLoanInput{KeyCode: keyB, Matricule: "M2", DueDate: "2026-03-20"})
	require.NoError(t, err)
	_, err = e.svc.Loans.CloseLoan(ctx, l.ID)
	require.NoError(t, err)

	s, err := e.svc.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Rooms)
	assert.Equal(t, int64(2), s.Borrowers)
	assert.Equal(t, int64(2), s.Loans)
	assert.Equal(t, int64(3), s.Keys)
	assert.Equal(t, int64(1), s.LentKeys)
	assert.Equal(t, int64(1), s.OpenLoans)
	assert.Equal(t, int64(0), s.OverdueLoans)
	assert.Equal(t, int64(1), s.RoomsOccupied)
	assert.Equal(t, int64(2), s.RoomsAvailable)
	assert.Equal(t, int64(0), s.RoomsNoKey)
}
