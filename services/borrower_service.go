package services

import (
	"context"
	"log/slog"
	"strings"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/models"
)

type BorrowerInput struct {
	Matricule string `json:"matricule" validate:"required,max=50"`
	Nom       string `json:"nom" validate:"max=100"`
	Prenoms   string `json:"prenoms" validate:"max=100"`
	Telephone string `json:"telephone" validate:"max=20"`
	Email     string `json:"email" validate:"omitempty,email,max=100"`
}

func (in *BorrowerInput) trim() {
	in.Matricule = strings.TrimSpace(in.Matricule)
	in.Nom = strings.TrimSpace(in.Nom)
	in.Prenoms = strings.TrimSpace(in.Prenoms)
	in.Telephone = strings.TrimSpace(in.Telephone)
	in.Email = strings.TrimSpace(in.Email)
}

type BorrowerPatch struct {
	Matricule *string `json:"matricule"`
	Nom       *string `json:"nom"`
	Prenoms   *string `json:"prenoms"`
	Telephone *string `json:"telephone"`
	Email     *string `json:"email"`
}

type BorrowerService struct {
	repo *db.Repo
	log  *slog.Logger
}

func NewBorrowerService(repo *db.Repo, log *slog.Logger) *BorrowerService {
	return &BorrowerService{repo: repo, log: log}
}

func (s *BorrowerService) CreateBorrower(ctx context.Context, in BorrowerInput) (*models.Borrower, error) {
	in.trim()
	if err := validateStruct("borrower", in); err != nil {
		return nil, err
	}
	exists, err := s.repo.MatriculeExists(ctx, in.Matricule)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.NewDuplicateIdentityError("borrower", "matricule", in.Matricule)
	}
	b := &models.Borrower{
		Matricule: in.Matricule,
		Nom:       in.Nom,
		Prenoms:   in.Prenoms,
		Telephone: in.Telephone,
		Email:     in.Email,
	}
	if err := s.repo.CreateBorrower(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("borrower created", "matricule", b.Matricule)
	return b, nil
}

// UpdateBorrower applies patch to the borrower holding matricule. A new
// matricule must not belong to another borrower.
func (s *BorrowerService) UpdateBorrower(ctx context.Context, matricule string, patch BorrowerPatch) (*models.Borrower, error) {
	var updated *models.Borrower
	err := s.repo.WithTx(ctx, func(tx *db.Repo) error {
		b, err := tx.FindBorrowerByMatricule(ctx, matricule)
		if err != nil {
			return err
		}
		in := BorrowerInput{
			Matricule: b.Matricule,
			Nom:       b.Nom,
			Prenoms:   b.Prenoms,
			Telephone: b.Telephone,
			Email:     b.Email,
		}
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		set(&in.Matricule, patch.Matricule)
		set(&in.Nom, patch.Nom)
		set(&in.Prenoms, patch.Prenoms)
		set(&in.Telephone, patch.Telephone)
		set(&in.Email, patch.Email)
		in.trim()
		if err := validateStruct("borrower", in); err != nil {
			return err
		}

		if in.Matricule != b.Matricule {
			other, err := tx.FindBorrowerByMatricule(ctx, in.Matricule)
			switch {
			case err == nil && other.ID != b.ID:
				return apperr.NewDuplicateIdentityError("borrower", "matricule", in.Matricule)
			case err != nil && !apperr.IsNotFound(err):
				return err
			}
		}

		b.Matricule = in.Matricule
		b.Nom = in.Nom
		b.Prenoms = in.Prenoms
		b.Telephone = in.Telephone
		b.Email = in.Email
		if err := tx.UpdateBorrower(ctx, b); err != nil {
			return err
		}
		updated, err = tx.FindBorrowerByMatricule(ctx, b.Matricule)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BorrowerService) ListBorrowers(ctx context.Context) ([]models.Borrower, error) {
	return s.repo.ListBorrowers(ctx)
}

func (s *BorrowerService) GetBorrower(ctx context.Context, matricule string) (*models.Borrower, error) {
	return s.repo.FindBorrowerByMatricule(ctx, strings.TrimSpace(matricule))
}

func (s *BorrowerService) BorrowerExists(ctx context.Context, matricule string) (bool, error) {
	return s.repo.MatriculeExists(ctx, matricule)
}
