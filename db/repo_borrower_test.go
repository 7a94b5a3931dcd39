package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/models"
	"Gin_postgres_redis_key_loans/testutil"
)

func TestRepo_Borrowers(t *testing.T) {
	repo := db.NewRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	ada := &models.Borrower{Matricule: "A1", Nom: "Lovelace", Prenoms: "Ada"}
	require.NoError(t, repo.CreateBorrower(ctx, ada))
	assert.NotZero(t, ada.ID)

	t.Run("unique matricule enforced by the store", func(t *testing.T) {
		err := repo.CreateBorrower(ctx, &models.Borrower{Matricule: "A1", Nom: "Dup"})
		assert.True(t, apperr.IsDuplicateIdentity(err))

		all, err := repo.ListBorrowers(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("find and exists", func(t *testing.T) {
		found, err := repo.FindBorrowerByMatricule(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, "Lovelace Ada", found.FullName())

		ok, err := repo.MatriculeExists(ctx, "A1")
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = repo.FindBorrowerByMatricule(ctx, "nope")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("update to a taken matricule fails", func(t *testing.T) {
		grace := &models.Borrower{Matricule: "G1", Nom: "Hopper", Prenoms: "Grace"}
		require.NoError(t, repo.CreateBorrower(ctx, grace))

		grace.Matricule = "A1"
		err := repo.UpdateBorrower(ctx, grace)
		assert.True(t, apperr.IsDuplicateIdentity(err))

		grace.Matricule = "G2"
		grace.Email = "grace@navy.mil"
		require.NoError(t, repo.UpdateBorrower(ctx, grace))
		found, err := repo.FindBorrowerByMatricule(ctx, "G2")
		require.NoError(t, err)
		assert.Equal(t, "grace@navy.mil", found.Email)
	})
}
