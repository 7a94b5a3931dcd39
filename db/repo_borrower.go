package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/models"
)

func (r *Repo) CreateBorrower(ctx context.Context, b *models.Borrower) error {
	if err := r.DB.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.NewDuplicateIdentityError("borrower", "matricule", b.Matricule)
		}
		return fmt.Errorf("insert borrower: %w", err)
	}
	return nil
}

func (r *Repo) FindBorrowerByMatricule(ctx context.Context, matricule string) (*models.Borrower, error) {
	var b models.Borrower
	if err := r.DB.WithContext(ctx).First(&b, "matricule = ?", matricule).Error; err != nil {
		return nil, notFound(err, "borrower", "matricule", matricule)
	}
	return &b, nil
}

func (r *Repo) MatriculeExists(ctx context.Context, matricule string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Borrower{}).Where("matricule = ?", matricule).Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListBorrowers(ctx context.Context) ([]models.Borrower, error) {
	var bs []models.Borrower
	err := r.DB.WithContext(ctx).Order("nom ASC, prenoms ASC, matricule ASC").Find(&bs).Error
	return bs, err
}

func (r *Repo) UpdateBorrower(ctx context.Context, b *models.Borrower) error {
	res := r.DB.WithContext(ctx).Model(&models.Borrower{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"matricule": b.Matricule,
			"nom":       b.Nom,
			"prenoms":   b.Prenoms,
			"telephone": b.Telephone,
			"email":     b.Email,
		})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return apperr.NewDuplicateIdentityError("borrower", "matricule", b.Matricule)
		}
		return fmt.Errorf("update borrower: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NewNotFoundError("borrower", "id", fmt.Sprint(b.ID))
	}
	return nil
}
