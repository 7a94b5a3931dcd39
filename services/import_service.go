package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/importer"
	"Gin_postgres_redis_key_loans/lock"
	"Gin_postgres_redis_key_loans/metrics"
	"Gin_postgres_redis_key_loans/models"
)

type ImportReport struct {
	LogID  uint          `json:"logId,omitempty"`
	Kind   importer.Kind `json:"kind"`
	Source string        `json:"source,omitempty"`
	importer.Result
}

type ImportService struct {
	repo      *db.Repo
	rooms     *RoomService
	borrowers *BorrowerService
	locker    lock.Locker
	log       *slog.Logger
}

func NewImportService(repo *db.Repo, rooms *RoomService, borrowers *BorrowerService, locker lock.Locker, log *slog.Logger) *ImportService {
	return &ImportService{repo: repo, rooms: rooms, borrowers: borrowers, locker: locker, log: log}
}

// Import merges rows into the registry for kind. Rows are created through
// the normal create path, so every imported room gets its key. Only one
// import per kind runs at a time.
func (s *ImportService) Import(ctx context.Context, kind importer.Kind, source string, rows []importer.Row) (*ImportReport, error) {
	if kind != importer.KindRooms && kind != importer.KindBorrowers {
		return nil, apperr.NewFieldError("import", "kind", string(kind), "kind must be rooms or borrowers")
	}
	release, err := s.locker.Acquire(ctx, "import:"+string(kind))
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, apperr.NewConflictError(fmt.Sprintf("an import of %s is already running", kind))
		}
		return nil, fmt.Errorf("import lock: %w", err)
	}
	defer release()

	log := s.log.With("import", kind, "source", source)
	var res importer.Result
	if kind == importer.KindRooms {
		res = importer.Reconcile(ctx, log, rows, s.roomRegistry())
	} else {
		res = importer.Reconcile(ctx, log, rows, s.borrowerRegistry())
	}

	metrics.ImportRows.WithLabelValues(string(kind), "created").Add(float64(res.Created))
	for _, sk := range res.Skipped {
		metrics.ImportRows.WithLabelValues(string(kind), string(sk.Reason)).Inc()
	}
	log.Info("import finished", "total", res.Total, "created", res.Created, "skipped", len(res.Skipped))

	report := &ImportReport{Kind: kind, Source: source, Result: res}
	skipped, err := json.Marshal(res.Skipped)
	if err != nil {
		return nil, err
	}
	entry := &models.ImportLog{
		Kind:    string(kind),
		Source:  source,
		Total:   res.Total,
		Created: res.Created,
		Skipped: datatypes.JSON(skipped),
	}
	// the rows are committed either way
	if err := s.repo.LogImport(ctx, entry); err != nil {
		log.Error("import log not written", "error", err)
		return report, nil
	}
	report.LogID = entry.ID
	return report, nil
}

func (s *ImportService) roomRegistry() importer.Registry[importer.RoomRecord] {
	return importer.Registry[importer.RoomRecord]{
		Decode:   importer.RoomFromRow,
		Identity: func(r importer.RoomRecord) string { return r.Nom },
		Exists:   s.rooms.RoomExists,
		Create: func(ctx context.Context, r importer.RoomRecord) error {
			_, err := s.rooms.CreateRoom(ctx, RoomInput{
				Nom:         r.Nom,
				Capacite:    r.Capacite,
				Equipements: r.Equipements,
				Description: r.Description,
			})
			return err
		},
	}
}

func (s *ImportService) borrowerRegistry() importer.Registry[importer.BorrowerRecord] {
	return importer.Registry[importer.BorrowerRecord]{
		Decode:   importer.BorrowerFromRow,
		Identity: func(r importer.BorrowerRecord) string { return r.Matricule },
		Exists:   s.borrowers.BorrowerExists,
		Create: func(ctx context.Context, r importer.BorrowerRecord) error {
			_, err := s.borrowers.CreateBorrower(ctx, BorrowerInput{
				Matricule: r.Matricule,
				Nom:       r.Nom,
				Prenoms:   r.Prenoms,
				Telephone: r.Telephone,
				Email:     r.Email,
			})
			return err
		},
	}
}

func (s *ImportService) ListLogs(ctx context.Context, kind string, limit int) ([]models.ImportLog, error) {
	return s.repo.ListImportLogs(ctx, kind, limit)
}
