package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/metrics"
	"Gin_postgres_redis_key_loans/models"
)

type OpenLoanInput struct {
	KeyCode   string `json:"keyCode" validate:"required"`
	Matricule string `json:"matricule" validate:"required"`
	Activite  string `json:"activite"`
	// DueDate is a calendar day (2006-01-02) or an RFC 3339 timestamp.
	DueDate string `json:"dueDate" validate:"required"`
}

type LoanView struct {
	models.Loan
	Status  models.LoanStatus `json:"status"`
	Overdue bool              `json:"overdue"`
}

type LoanService struct {
	repo *db.Repo
	log  *slog.Logger
	now  func() time.Time
}

func NewLoanService(repo *db.Repo, log *slog.Logger) *LoanService {
	return &LoanService{repo: repo, log: log, now: time.Now}
}

// WithClock replaces the time source.
func (s *LoanService) WithClock(now func() time.Time) *LoanService {
	s.now = now
	return s
}

func (s *LoanService) view(l models.Loan, now time.Time) LoanView {
	return LoanView{Loan: l, Status: l.Status(), Overdue: l.Overdue(now)}
}

func (s *LoanService) views(ls []models.Loan) []LoanView {
	now := s.now()
	out := make([]LoanView, 0, len(ls))
	for _, l := range ls {
		out = append(out, s.view(l, now))
	}
	return out
}

// OpenLoan lends the key to the borrower until dueDate. The due day may be
// today but not earlier.
func (s *LoanService) OpenLoan(ctx context.Context, in OpenLoanInput) (*LoanView, error) {
	in.KeyCode = strings.TrimSpace(in.KeyCode)
	in.Matricule = strings.TrimSpace(in.Matricule)
	in.Activite = strings.TrimSpace(in.Activite)
	if err := validateStruct("loan", in); err != nil {
		return nil, s.rejected("open", err)
	}

	now := s.now()
	due, err := parseDueDate(in.DueDate, now.Location())
	if err != nil {
		return nil, s.rejected("open", err)
	}
	if due.Before(models.StartOfDay(now)) {
		return nil, s.rejected("open", apperr.NewFieldError("loan", "dueDate", in.DueDate,
			"due date must not be before the loan date"))
	}

	key, err := s.repo.FindKeyByCode(ctx, in.KeyCode)
	if err != nil {
		return nil, s.rejected("open", err)
	}
	b, err := s.repo.FindBorrowerByMatricule(ctx, in.Matricule)
	if err != nil {
		return nil, s.rejected("open", err)
	}

	loan, err := s.repo.OpenLoan(ctx, db.OpenLoanInput{
		KeyID:      key.ID,
		BorrowerID: b.ID,
		Activite:   in.Activite,
		LoanAt:     now,
		DueAt:      due,
	})
	if err != nil {
		return nil, s.rejected("open", err)
	}
	metrics.LoansOpened.Inc()
	s.log.Info("loan opened", "loan", loan.ID, "key", key.Code, "borrower", b.Matricule, "due", due.Format(time.DateOnly))

	loan.Key = key
	loan.Borrower = b
	v := s.view(*loan, now)
	return &v, nil
}

// CloseLoan records the return and frees the key.
func (s *LoanService) CloseLoan(ctx context.Context, id uint) (*LoanView, error) {
	now := s.now()
	if _, err := s.repo.CloseLoan(ctx, id, now); err != nil {
		return nil, s.rejected("close", err)
	}
	metrics.LoansClosed.Inc()

	loan, err := s.repo.FindLoanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("loan closed", "loan", loan.ID, "key", loan.Key.Code, "borrower", loan.Borrower.Matricule)
	v := s.view(*loan, now)
	return &v, nil
}

func (s *LoanService) rejected(op string, err error) error {
	reason := string(apperr.TypeInternal)
	if e := apperr.Get(err); e != nil {
		reason = string(e.Type)
	}
	metrics.LoanRejections.WithLabelValues(op, reason).Inc()
	if reason == string(apperr.TypeInternal) {
		s.log.Error("loan "+op+" failed", "error", err)
	} else {
		s.log.Warn("loan "+op+" rejected", "reason", reason, "error", err)
	}
	return err
}

func (s *LoanService) AvailableKeys(ctx context.Context) ([]models.Key, error) {
	return s.repo.ListKeys(ctx, true)
}

func (s *LoanService) ListKeys(ctx context.Context, availableOnly bool) ([]models.Key, error) {
	return s.repo.ListKeys(ctx, availableOnly)
}

// BorrowerHistory lists every loan of the borrower, oldest first.
func (s *LoanService) BorrowerHistory(ctx context.Context, matricule string) ([]LoanView, error) {
	b, err := s.repo.FindBorrowerByMatricule(ctx, strings.TrimSpace(matricule))
	if err != nil {
		return nil, err
	}
	ls, err := s.repo.ListLoans(ctx, db.LoanFilter{BorrowerID: b.ID, Oldest: true})
	if err != nil {
		return nil, err
	}
	return s.views(ls), nil
}

// KeyHistory lists every loan of the key, oldest first.
func (s *LoanService) KeyHistory(ctx context.Context, code string) ([]LoanView, error) {
	k, err := s.repo.FindKeyByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	ls, err := s.repo.ListLoans(ctx, db.LoanFilter{KeyID: k.ID, Oldest: true})
	if err != nil {
		return nil, err
	}
	return s.views(ls), nil
}

// ListLoans lists loans newest first. status is open, closed, or empty/all.
func (s *LoanService) ListLoans(ctx context.Context, status string) ([]LoanView, error) {
	f := db.LoanFilter{}
	switch st := models.LoanStatus(strings.ToLower(strings.TrimSpace(status))); st {
	case "", "all":
	case models.LoanOpen, models.LoanClosed:
		f.Status = st
	default:
		return nil, apperr.NewFieldError("loan", "status", status, "status must be one of open, closed, all")
	}
	ls, err := s.repo.ListLoans(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.views(ls), nil
}

func (s *LoanService) GetLoan(ctx context.Context, id uint) (*LoanView, error) {
	l, err := s.repo.FindLoanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*l, s.now())
	return &v, nil
}

func parseDueDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return models.StartOfDay(t.In(loc)), nil
	}
	return time.Time{}, apperr.NewFieldError("loan", "dueDate", raw,
		fmt.Sprintf("due date %q is not a date (expected %s)", raw, time.DateOnly))
}
