package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"yookye/backend/internal/preference/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*domain.Record, error) {
	var rec domain.Record
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, payload, created_at, updated_at FROM preferences WHERE user_id = $1
	`, userID).Scan(&rec.UserID, &payload, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(payload, &rec.Preferences); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec *domain.Record) error {
	payload, err := json.Marshal(rec.Preferences)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`, rec.UserID, payload, rec.CreatedAt, rec.UpdatedAt)
	return err
}
