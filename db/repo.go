package db

import (
	"context"
	"errors"
	"strings"

	"Gin_postgres_redis_key_loans/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repo is the entity store. A Repo obtained from WithTx runs every call in
// that transaction.
type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// WithTx runs fn in one transaction: committed when fn returns nil, rolled
// back on error or panic.
func (r *Repo) WithTx(ctx context.Context, fn func(tx *Repo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{DB: tx})
	})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") || strings.Contains(s, "duplicate key")
}

// notFound turns gorm.ErrRecordNotFound into an apperr not_found error and
// passes anything else through.
func notFound(err error, entity, field, value string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NewNotFoundError(entity, field, value)
	}
	return err
}
