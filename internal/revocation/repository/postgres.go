package repository

import (
	"context"
	"database/sql"

	"yookye/backend/internal/revocation/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, e *domain.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revocations (jti, user_id, revoked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING
	`, e.Jti, e.UserID, e.RevokedAt)
	return err
}

func (r *PostgresRepository) Exists(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revocations WHERE jti = $1)`, jti).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
