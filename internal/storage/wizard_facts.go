package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caseworks-hq/caseworks/internal/model"
)

// GetOrCreateFacts reads the flat facts row for a case, creating an empty
// one on first access. The create is not race-retried: two concurrent first
// readers can both attempt the insert, and the primary key constraint
// resolves the loser, whose error surfaces as a create failure. Accepted as
// a benign race, since the wizard front-end only ever issues one first read.
func (db *DB) GetOrCreateFacts(ctx context.Context, caseID uuid.UUID) (model.FactsRecord, error) {
	rec, err := db.getFacts(ctx, caseID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		db.logger.Error("load wizard facts", "case_id", caseID, "error", err)
		return model.FactsRecord{}, ErrFactsRead
	}

	now := time.Now().UTC()
	rec = model.FactsRecord{
		CaseID:    caseID,
		Facts:     model.WizardFacts{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.pool.Exec(ctx,
		`INSERT INTO case_facts (case_id, facts, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.CaseID, rec.Facts, rec.Version, rec.CreatedAt, rec.UpdatedAt,
	); err != nil {
		if isForeignKeyViolation(err) {
			return model.FactsRecord{}, ErrNotFound
		}
		db.logger.Error("create wizard facts", "case_id", caseID, "error", err)
		return model.FactsRecord{}, ErrFactsCreate
	}
	return rec, nil
}

// UpdateFacts loads the current facts, applies a pure transformation,
// increments the version, writes the row, and mirrors the result onto the
// parent case's collected_facts column (tagged with a __meta wrapper when
// caller metadata is present).
//
// The two writes are sequential, not transactional: a failure between them
// leaves the mirror one version behind until the next update. The mirror is
// always re-derivable from the facts row, so the window is tolerated rather
// than hidden behind a transaction the external store may not honor.
func (db *DB) UpdateFacts(ctx context.Context, caseID uuid.UUID, updater func(model.WizardFacts) model.WizardFacts, meta map[string]any) (model.FactsRecord, error) {
	// A PATCH may arrive before any GET, so the row is created here too.
	rec, err := db.GetOrCreateFacts(ctx, caseID)
	if err != nil {
		return model.FactsRecord{}, err
	}

	rec.Facts = updater(rec.Facts.Clone())
	if rec.Facts == nil {
		rec.Facts = model.WizardFacts{}
	}
	rec.Version++
	rec.UpdatedAt = time.Now().UTC()

	if _, err := db.pool.Exec(ctx,
		`UPDATE case_facts SET facts = $1, version = $2, updated_at = $3 WHERE case_id = $4`,
		rec.Facts, rec.Version, rec.UpdatedAt, rec.CaseID,
	); err != nil {
		db.logger.Error("write wizard facts", "case_id", caseID, "error", err)
		return model.FactsRecord{}, ErrFactsWrite
	}

	mirror := map[string]any(rec.Facts)
	if len(meta) > 0 {
		tagged := make(map[string]any, len(rec.Facts)+1)
		for k, v := range rec.Facts {
			tagged[k] = v
		}
		tagged["__meta"] = meta
		mirror = tagged
	}
	if _, err := db.pool.Exec(ctx,
		`UPDATE cases SET collected_facts = $1, updated_at = $2 WHERE id = $3`,
		mirror, rec.UpdatedAt, caseID,
	); err != nil {
		db.logger.Error("mirror wizard facts", "case_id", caseID, "error", err)
		return model.FactsRecord{}, ErrFactsWrite
	}

	return rec, nil
}

// isForeignKeyViolation checks if a Postgres error is a foreign_key_violation
// (23503), which on a case_facts insert means the parent case does not exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func (db *DB) getFacts(ctx context.Context, caseID uuid.UUID) (model.FactsRecord, error) {
	var rec model.FactsRecord
	err := db.pool.QueryRow(ctx,
		`SELECT case_id, facts, version, created_at, updated_at
		 FROM case_facts WHERE case_id = $1`, caseID,
	).Scan(&rec.CaseID, &rec.Facts, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.FactsRecord{}, ErrNotFound
		}
		return model.FactsRecord{}, fmt.Errorf("storage: get wizard facts: %w", err)
	}
	if rec.Facts == nil {
		rec.Facts = model.WizardFacts{}
	}
	return rec, nil
}
