package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caseworks-hq/caseworks/internal/model"
)

// CreateCase inserts a case and returns it.
func (db *DB) CreateCase(ctx context.Context, c model.Case) (model.Case, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = model.CaseStatusDraft
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := db.pool.Exec(ctx,
		`INSERT INTO cases (id, product, status, collected_facts, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Product, c.Status, c.CollectedFacts, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return model.Case{}, fmt.Errorf("storage: create case: %w", err)
	}
	return c, nil
}

// GetCase retrieves a case by ID.
func (db *DB) GetCase(ctx context.Context, id uuid.UUID) (model.Case, error) {
	var c model.Case
	err := db.pool.QueryRow(ctx,
		`SELECT id, product, status, collected_facts, created_at, updated_at
		 FROM cases WHERE id = $1`, id,
	).Scan(&c.ID, &c.Product, &c.Status, &c.CollectedFacts, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Case{}, ErrNotFound
		}
		return model.Case{}, fmt.Errorf("storage: get case: %w", err)
	}
	return c, nil
}

// UpdateCaseStatus moves a case through its lifecycle.
func (db *DB) UpdateCaseStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE cases SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("storage: update case status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
