package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/models"
	"Gin_postgres_redis_key_loans/testutil"
)

type loanFixture struct {
	repo     *db.Repo
	key      models.Key
	borrower models.Borrower
}

func setupLoanFixture(t *testing.T) *loanFixture {
	repo := db.NewRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	room := &models.Room{Nom: "Amphi A"}
	require.NoError(t, repo.CreateRoomWithKey(ctx, room))
	b := &models.Borrower{Matricule: "M001", Nom: "Diallo", Prenoms: "Awa"}
	require.NoError(t, repo.CreateBorrower(ctx, b))

	return &loanFixture{repo: repo, key: room.Keys[0], borrower: *b}
}

func (f *loanFixture) input(at time.Time) db.OpenLoanInput {
	return db.OpenLoanInput{
		KeyID:      f.key.ID,
		BorrowerID: f.borrower.ID,
		Activite:   "TD",
		LoanAt:     at,
		DueAt:      models.StartOfDay(at).AddDate(0, 0, 1),
	}
}

// assertKeyInvariant checks available == false iff exactly one open loan.
func assertKeyInvariant(t *testing.T, repo *db.Repo, keyID uint) {
	t.Helper()
	var k models.Key
	require.NoError(t, repo.DB.First(&k, keyID).Error)
	var open int64
	require.NoError(t, repo.DB.Model(&models.Loan{}).
		Where("key_id = ? AND returned_at IS NULL", keyID).Count(&open).Error)
	if k.Available {
		assert.Equal(t, int64(0), open)
	} else {
		assert.Equal(t, int64(1), open)
	}
}

func TestRepo_OpenLoan(t *testing.T) {
	f := setupLoanFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	loan, err := f.repo.OpenLoan(ctx, f.input(now))
	require.NoError(t, err)
	assert.NotZero(t, loan.ID)
	assert.Nil(t, loan.ReturnedAt)
	assert.True(t, loan.LoanAt.Equal(now))
	assertKeyInvariant(t, f.repo, f.key.ID)

	t.Run("lent key is rejected", func(t *testing.T) {
		_, err := f.repo.OpenLoan(ctx, f.input(now.Add(time.Minute)))
		assert.True(t, apperr.IsKeyUnavailable(err))

		open, err := f.repo.ListLoans(ctx, db.LoanFilter{KeyID: f.key.ID, Status: models.LoanOpen})
		require.NoError(t, err)
		assert.Len(t, open, 1)
		assertKeyInvariant(t, f.repo, f.key.ID)
	})

	t.Run("unknown key or borrower", func(t *testing.T) {
		in := f.input(now)
		in.KeyID = 999
		_, err := f.repo.OpenLoan(ctx, in)
		assert.True(t, apperr.IsNotFound(err))

		in = f.input(now)
		in.BorrowerID = 999
		_, err = f.repo.OpenLoan(ctx, in)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestRepo_OpenLoan_IndexGuardsStaleFlag(t *testing.T) {
	f := setupLoanFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := f.repo.OpenLoan(ctx, f.input(now))
	require.NoError(t, err)

	// corrupt the flag: the partial unique index still refuses a second
	// open loan, and the flag flip is rolled back with it
	require.NoError(t, f.repo.DB.Model(&models.Key{}).Where("id = ?", f.key.ID).Update("available", true).Error)

	_, err = f.repo.OpenLoan(ctx, f.input(now))
	assert.True(t, apperr.IsKeyUnavailable(err))

	var k models.Key
	require.NoError(t, f.repo.DB.First(&k, f.key.ID).Error)
	assert.True(t, k.Available)
}

func TestRepo_CloseLoan(t *testing.T) {
	f := setupLoanFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	loan, err := f.repo.OpenLoan(ctx, f.input(now))
	require.NoError(t, err)

	returnedAt := now.Add(2 * time.Hour)
	closed, err := f.repo.CloseLoan(ctx, loan.ID, returnedAt)
	require.NoError(t, err)
	require.NotNil(t, closed.ReturnedAt)
	assert.True(t, closed.ReturnedAt.Equal(returnedAt))
	assertKeyInvariant(t, f.repo, f.key.ID)

	t.Run("second close is rejected and returned_at untouched", func(t *testing.T) {
		_, err := f.repo.CloseLoan(ctx, loan.ID, returnedAt.Add(time.Hour))
		assert.True(t, apperr.IsLoanAlreadyClosed(err))

		found, err := f.repo.FindLoanByID(ctx, loan.ID)
		require.NoError(t, err)
		assert.True(t, found.ReturnedAt.Equal(returnedAt))
		assert.Equal(t, "Amphi A", found.Key.Room.Nom)
		assert.Equal(t, "M001", found.Borrower.Matricule)
	})

	t.Run("unknown loan", func(t *testing.T) {
		_, err := f.repo.CloseLoan(ctx, 12345, now)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("key can be lent again", func(t *testing.T) {
		_, err := f.repo.OpenLoan(ctx, f.input(now.Add(3*time.Hour)))
		require.NoError(t, err)
		assertKeyInvariant(t, f.repo, f.key.ID)

		history, err := f.repo.ListLoans(ctx, db.LoanFilter{KeyID: f.key.ID, Oldest: true})
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, loan.ID, history[0].ID)
		assert.Equal(t, models.LoanClosed, history[0].Status())
		assert.Equal(t, models.LoanOpen, history[1].Status())
	})
}

func TestRepo_OpenLoan_Concurrent(t *testing.T) {
	f := setupLoanFixture(t)
	ctx := context.Background()

	const callers = 2
	var wg sync.WaitGroup
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.repo.OpenLoan(ctx, f.input(time.Now().UTC()))
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, unavailable int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.IsKeyUnavailable(err):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, unavailable)
	assertKeyInvariant(t, f.repo, f.key.ID)
}

func TestRepo_ListLoans_Filters(t *testing.T) {
	f := setupLoanFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	first, err := f.repo.OpenLoan(ctx, f.input(base))
	require.NoError(t, err)
	_, err = f.repo.CloseLoan(ctx, first.ID, base.Add(time.Hour))
	require.NoError(t, err)
	second, err := f.repo.OpenLoan(ctx, f.input(base.Add(24*time.Hour)))
	require.NoError(t, err)

	all, err := f.repo.ListLoans(ctx, db.LoanFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	closed, err := f.repo.ListLoans(ctx, db.LoanFilter{Status: models.LoanClosed})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, first.ID, closed[0].ID)

	mine, err := f.repo.ListLoans(ctx, db.LoanFilter{BorrowerID: f.borrower.ID, Oldest: true})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)

	none, err := f.repo.ListLoans(ctx, db.LoanFilter{BorrowerID: 999})
	require.NoError(t, err)
	assert.Empty(t, none)
}
