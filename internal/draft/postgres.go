package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps drafts in a single JSONB-backed table. The draft is an
// opaque document to the database; only identity columns are relational.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type draftRow struct {
	ID             string `db:"id"`
	UserID         string `db:"user_id"`
	IdempotencyKey string `db:"idempotency_key"`
	Payload        []byte `db:"payload"`
}

func (s *PostgresStore) Create(ctx context.Context, d *Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO booking_drafts (id, user_id, idempotency_key, payload, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.UserID, d.IdempotencyKey, payload, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Draft, error) {
	var row draftRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, user_id, idempotency_key, payload FROM booking_drafts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(row.Payload, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	return &d, nil
}

func (s *PostgresStore) Update(ctx context.Context, d *Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE booking_drafts SET idempotency_key = $2, payload = $3, updated_at = $4 WHERE id = $1`,
		d.ID, d.IdempotencyKey, payload, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
