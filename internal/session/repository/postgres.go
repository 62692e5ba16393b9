package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"yookye/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, access_jti, refresh_jti, ip_address, user_agent, expires_at, last_activity_at, revoked_at, revoke_reason, created_at`

func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.UserID, s.AccessJti, s.RefreshJti, s.IPAddress, s.UserAgent,
		s.ExpiresAt, timeToNullTime(s.LastActivityAt), timeToNullTime(s.RevokedAt),
		nullString(s.RevokeReason), s.CreatedAt)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (r *PostgresRepository) GetActiveByAccessJti(ctx context.Context, jti string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE access_jti = $1 AND revoked_at IS NULL`, jti)
	return scanSession(row)
}

func (r *PostgresRepository) GetActiveByRefreshJti(ctx context.Context, jti string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_jti = $1 AND revoked_at IS NULL`, jti)
	return scanSession(row)
}

func (r *PostgresRepository) ListActiveByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = $1 AND revoked_at IS NULL
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *PostgresRepository) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET last_activity_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *PostgresRepository) UpdateAccessJti(ctx context.Context, id, jti string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET access_jti = $2 WHERE id = $1`, id, jti)
	return err
}

func (r *PostgresRepository) Revoke(ctx context.Context, id, reason string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = $3, revoke_reason = $2
		WHERE id = $1 AND revoked_at IS NULL
	`, id, reason, at)
	return err
}

func (r *PostgresRepository) RevokeAllByUser(ctx context.Context, userID, reason string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = $3, revoke_reason = $2
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID, reason, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var lastActivityAt, revokedAt sql.NullTime
	var revokeReason sql.NullString
	err := row.Scan(&s.ID, &s.UserID, &s.AccessJti, &s.RefreshJti, &s.IPAddress,
		&s.UserAgent, &s.ExpiresAt, &lastActivityAt, &revokedAt, &revokeReason, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.LastActivityAt = nullTimeToPtr(lastActivityAt)
	s.RevokedAt = nullTimeToPtr(revokedAt)
	s.RevokeReason = revokeReason.String
	return &s, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
