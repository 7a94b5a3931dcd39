package importer

import (
	"context"
	"log/slog"

	"Gin_postgres_redis_key_loans/apperr"
)

type SkipReason string

const (
	SkipMissingIdentity SkipReason = "missing-identity"
	SkipAlreadyExists   SkipReason = "already-exists"
	SkipInvalid         SkipReason = "invalid"
	SkipFailed          SkipReason = "failed"
)

type Skip struct {
	Row      int        `json:"row"`
	Identity string     `json:"identity,omitempty"`
	Reason   SkipReason `json:"reason"`
	Detail   string     `json:"detail,omitempty"`
}

type Result struct {
	Total   int    `json:"total"`
	Created int    `json:"created"`
	Skipped []Skip `json:"skipped"`
}

// Registry is what Reconcile needs from a registry for one record type.
type Registry[R any] struct {
	Decode   func(Row) (R, error)
	Identity func(R) string
	Exists   func(ctx context.Context, identity string) (bool, error)
	Create   func(ctx context.Context, rec R) error
}

// Reconcile walks rows in order and creates the ones whose identity is set
// and unknown. Each create commits on its own, so a failing row never undoes
// an earlier one and never stops the batch.
func Reconcile[R any](ctx context.Context, log *slog.Logger, rows []Row, reg Registry[R]) Result {
	res := Result{Total: len(rows), Skipped: []Skip{}}
	skip := func(i int, id string, reason SkipReason, detail string) {
		res.Skipped = append(res.Skipped, Skip{Row: i, Identity: id, Reason: reason, Detail: detail})
	}

	for i, row := range rows {
		rec, decodeErr := reg.Decode(row)
		id := reg.Identity(rec)
		if id == "" {
			log.Warn("row skipped: missing identity", "row", i)
			skip(i, "", SkipMissingIdentity, "")
			continue
		}
		if decodeErr != nil {
			log.Warn("row skipped: invalid", "row", i, "identity", id, "error", decodeErr)
			skip(i, id, SkipInvalid, decodeErr.Error())
			continue
		}

		exists, err := reg.Exists(ctx, id)
		if err != nil {
			log.Error("row skipped: lookup failed", "row", i, "identity", id, "error", err)
			skip(i, id, SkipFailed, err.Error())
			continue
		}
		if exists {
			log.Info("row skipped: already exists", "row", i, "identity", id)
			skip(i, id, SkipAlreadyExists, "")
			continue
		}

		if err := reg.Create(ctx, rec); err != nil {
			switch {
			case apperr.IsDuplicateIdentity(err):
				log.Info("row skipped: already exists", "row", i, "identity", id)
				skip(i, id, SkipAlreadyExists, "")
			case apperr.IsValidation(err):
				log.Warn("row skipped: invalid", "row", i, "identity", id, "error", err)
				skip(i, id, SkipInvalid, validationDetail(err))
			default:
				log.Error("row skipped: create failed", "row", i, "identity", id, "error", err)
				skip(i, id, SkipFailed, err.Error())
			}
			continue
		}
		res.Created++
	}
	return res
}

func validationDetail(err error) string {
	if e := apperr.Get(err); e != nil && e.Details != "" {
		return e.Details
	}
	return err.Error()
}
