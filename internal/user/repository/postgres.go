package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"yookye/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, name, username, status, last_login_at, deleted_at, created_at, updated_at`

// GetByID returns the user for id, or nil if not found. Soft-deleted users are
// still returned; callers that care check Status.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the non-deleted user for the lower-cased email, or nil if
// not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND deleted_at IS NULL`, email)
	return scanUser(row)
}

// Create persists the user. The user must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Username, string(u.Status),
		timeToNullTime(u.LastLoginAt), timeToNullTime(u.DeletedAt), u.CreatedAt, u.UpdatedAt)
	return err
}

// Update overwrites the user's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, password_hash = $3, name = $4, username = $5, status = $6,
		    last_login_at = $7, deleted_at = $8, updated_at = $9
		WHERE id = $1
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Username, string(u.Status),
		timeToNullTime(u.LastLoginAt), timeToNullTime(u.DeletedAt), u.UpdatedAt)
	return err
}

// MarkDeleted soft-deletes the user.
func (r *PostgresRepository) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET status = $2, deleted_at = $3, updated_at = $3 WHERE id = $1
	`, id, string(domain.UserStatusDeleted), at)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var status string
	var lastLoginAt, deletedAt sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Username, &status,
		&lastLoginAt, &deletedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Status = domain.UserStatus(status)
	u.LastLoginAt = nullTimeToPtr(lastLoginAt)
	u.DeletedAt = nullTimeToPtr(deletedAt)
	return &u, nil
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
