package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/importer"
	"Gin_postgres_redis_key_loans/models"
)

func TestImportService_Borrowers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rows := []importer.Row{
		{"matricule": "A1", "nom": "Smith", "prenoms": "John", "telephone": "0102", "email": "js@example.org"},
		{"matricule": "", "nom": "Bad"},
		{"matricule": "A1", "nom": "Dup"},
	}
	rep, err := e.svc.Imports.Import(ctx, importer.KindBorrowers, "test", rows)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Created)
	require.Len(t, rep.Skipped, 2)
	assert.Equal(t, importer.SkipMissingIdentity, rep.Skipped[0].Reason)
	assert.Equal(t, 1, rep.Skipped[0].Row)
	assert.Equal(t, importer.SkipAlreadyExists, rep.Skipped[1].Reason)
	assert.Equal(t, 2, rep.Skipped[1].Row)

	var bs []models.Borrower
	require.NoError(t, e.db.Where("matricule = ?", "A1").Find(&bs).Error)
	require.Len(t, bs, 1)
	assert.Equal(t, "Smith", bs[0].Nom)
}

func TestImportService_Rooms(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rows := make([]importer.Row, 0, 5)
	for i := 1; i <= 5; i++ {
		rows = append(rows, importer.Row{"nom": fmt.Sprintf("Salle %d", i), "capacite": fmt.Sprint(i * 10)})
	}
	rep, err := e.svc.Imports.Import(ctx, importer.KindRooms, "salles.csv", rows)
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Created)
	assert.Empty(t, rep.Skipped)

	assert.Equal(t, int64(5), e.count(t, &models.Room{}))
	assert.Equal(t, int64(5), e.count(t, &models.Key{}))

	var rooms []models.Room
	require.NoError(t, e.db.Preload("Keys").Find(&rooms).Error)
	for _, r := range rooms {
		require.Len(t, r.Keys, 1, r.Nom)
		assert.Equal(t, models.KeyCode(r.ID), r.Keys[0].Code)
	}

	// a second run of the same file changes nothing
	rep, err = e.svc.Imports.Import(ctx, importer.KindRooms, "salles.csv", rows)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Created)
	assert.Len(t, rep.Skipped, 5)
	assert.Equal(t, int64(5), e.count(t, &models.Key{}))
}

func TestImportService_InvalidRowsDoNotAbort(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rows := []importer.Row{
		{"nom": "Ok 1"},
		{"nom": "Negative", "capacite": "-3"},
		{"nom": "NaN", "capacite": "beaucoup"},
		{"nom": "Ok 2", "capacite": "12.0"},
	}
	rep, err := e.svc.Imports.Import(ctx, importer.KindRooms, "", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Created)
	require.Len(t, rep.Skipped, 2)
	for _, sk := range rep.Skipped {
		assert.Equal(t, importer.SkipInvalid, sk.Reason)
		assert.NotEmpty(t, sk.Detail)
	}

	v, err := e.svc.Rooms.GetRoom(ctx, "Ok 2")
	require.NoError(t, err)
	assert.Equal(t, 12, v.Capacite)
}

func TestImportService_Lock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	release, err := e.locker.Acquire(ctx, "import:rooms")
	require.NoError(t, err)

	_, err = e.svc.Imports.Import(ctx, importer.KindRooms, "", []importer.Row{{"nom": "X"}})
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, int64(0), e.count(t, &models.Room{}))

	// another kind is not blocked
	_, err = e.svc.Imports.Import(ctx, importer.KindBorrowers, "", []importer.Row{{"matricule": "M"}})
	assert.NoError(t, err)

	release()
	rep, err := e.svc.Imports.Import(ctx, importer.KindRooms, "", []importer.Row{{"nom": "X"}})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Created)
}

func TestImportService_Log(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rep, err := e.svc.Imports.Import(ctx, importer.KindBorrowers, "etudiants.csv", []importer.Row{
		{"matricule": "A"}, {"matricule": ""},
	})
	require.NoError(t, err)
	assert.NotZero(t, rep.LogID)
	_, err = e.svc.Imports.Import(ctx, importer.KindRooms, "salles.csv", []importer.Row{{"nom": "R"}})
	require.NoError(t, err)

	logs, err := e.svc.Imports.ListLogs(ctx, "borrowers", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	l := logs[0]
	assert.Equal(t, "etudiants.csv", l.Source)
	assert.Equal(t, 2, l.Total)
	assert.Equal(t, 1, l.Created)

	var skipped []importer.Skip
	require.NoError(t, json.Unmarshal(l.Skipped, &skipped))
	assert.Equal(t, []importer.Skip{{Row: 1, Reason: importer.SkipMissingIdentity}}, skipped)

	all, err := e.svc.Imports.ListLogs(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportService_UnknownKind(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Imports.Import(context.Background(), importer.Kind("loans"), "", nil)
	assert.True(t, apperr.IsValidation(err))
}
