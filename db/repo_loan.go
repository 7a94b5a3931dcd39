package db

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OpenLoanInput struct {
	KeyID      uint
	BorrowerID uint
	Activite   string
	LoanAt     time.Time
	DueAt      time.Time
}

// OpenLoan is atomic: lock the key, take it (available -> false), insert the
// open loan. The partial unique index on open loans is the last guard when
// two transactions race past the availability check.
func (r *Repo) OpenLoan(ctx context.Context, in OpenLoanInput) (*models.Loan, error) {
	var loan *models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var k models.Key
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&k, "id = ?", in.KeyID).Error; err != nil {
			return notFound(err, "key", "id", fmt.Sprint(in.KeyID))
		}

		var n int64
		if err := tx.Model(&models.Borrower{}).Where("id = ?", in.BorrowerID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperr.NewNotFoundError("borrower", "id", fmt.Sprint(in.BorrowerID))
		}

		if !k.Available {
			return apperr.NewKeyUnavailableError(k.Code)
		}
		res := tx.Model(&models.Key{}).
			Where("id = ? AND available = ?", k.ID, true).
			Update("available", false)
		if res.Error != nil {
			return fmt.Errorf("take key: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NewKeyUnavailableError(k.Code)
		}

		l := &models.Loan{
			KeyID:      k.ID,
			BorrowerID: in.BorrowerID,
			Activite:   in.Activite,
			LoanAt:     in.LoanAt,
			DueAt:      in.DueAt,
		}
		if err := tx.Create(l).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.NewKeyUnavailableError(k.Code)
			}
			return fmt.Errorf("insert loan: %w", err)
		}
		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// CloseLoan is atomic: stamp returned_at, release the key. A loan closes
// once; a second call fails with loan_already_closed and changes nothing.
func (r *Repo) CloseLoan(ctx context.Context, loanID uint, at time.Time) (*models.Loan, error) {
	var l models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return notFound(err, "loan", "id", fmt.Sprint(loanID))
		}
		if l.ReturnedAt != nil {
			return apperr.NewLoanAlreadyClosedError(l.ID)
		}

		res := tx.Model(&models.Loan{}).
			Where("id = ? AND returned_at IS NULL", l.ID).
			Update("returned_at", at)
		if res.Error != nil {
			return fmt.Errorf("close loan: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NewLoanAlreadyClosedError(l.ID)
		}

		res = tx.Model(&models.Key{}).
			Where("id = ?", l.KeyID).
			Update("available", true)
		if res.Error != nil {
			return fmt.Errorf("release key: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NewNotFoundError("key", "id", fmt.Sprint(l.KeyID))
		}
		l.ReturnedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) FindLoanByID(ctx context.Context, id uint) (*models.Loan, error) {
	var l models.Loan
	if err := r.DB.WithContext(ctx).
		Preload("Key.Room").
		Preload("Borrower").
		First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "loan", "id", fmt.Sprint(id))
	}
	return &l, nil
}

type LoanFilter struct {
	BorrowerID uint
	KeyID      uint
	Status     models.LoanStatus // "" = all
	Oldest     bool              // chronological instead of newest first
}

func (r *Repo) ListLoans(ctx context.Context, f LoanFilter) ([]models.Loan, error) {
	q := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Key.Room").
		Preload("Borrower")
	if f.Oldest {
		q = q.Order("loan_at ASC, id ASC")
	} else {
		q = q.Order("loan_at DESC, id DESC")
	}
	if f.BorrowerID != 0 {
		q = q.Where("borrower_id = ?", f.BorrowerID)
	}
	if f.KeyID != 0 {
		q = q.Where("key_id = ?", f.KeyID)
	}
	switch f.Status {
	case models.LoanOpen:
		q = q.Where("returned_at IS NULL")
	case models.LoanClosed:
		q = q.Where("returned_at IS NOT NULL")
	}
	var ls []models.Loan
	if err := q.Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}
