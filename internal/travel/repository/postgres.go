package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"yookye/backend/internal/travel/domain"
)

// PostgresRepository stores travel forms as JSONB documents, keeping the
// lifecycle columns relational for cheap status queries.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *domain.TravelRequest) error {
	payload, err := json.Marshal(t.Form)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO travel_requests (id, user_id, payload, status, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, nullString(t.UserID), payload, string(t.Status), nullString(t.UpdatedBy), t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.TravelRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, payload, status, updated_by, created_at, updated_at
		FROM travel_requests WHERE id = $1
	`, id)
	return scanTravel(row)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TravelRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, payload, status, updated_by, created_at, updated_at
		FROM travel_requests WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var travels []*domain.TravelRequest
	for rows.Next() {
		t, err := scanTravel(rows)
		if err != nil {
			return nil, err
		}
		travels = append(travels, t)
	}
	return travels, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedBy string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE travel_requests SET status = $2, updated_by = $3, updated_at = $4 WHERE id = $1
	`, id, string(status), nullString(updatedBy), at)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTravel(row rowScanner) (*domain.TravelRequest, error) {
	var t domain.TravelRequest
	var userID, updatedBy sql.NullString
	var payload []byte
	var status string
	err := row.Scan(&t.ID, &userID, &payload, &status, &updatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(payload, &t.Form); err != nil {
		return nil, err
	}
	t.UserID = userID.String
	t.UpdatedBy = updatedBy.String
	t.Status = domain.Status(status)
	return &t, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
