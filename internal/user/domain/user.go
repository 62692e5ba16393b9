package domain

import (
	"errors"
	"time"
)

// UserStatus is the lifecycle state of an account. Accounts are never
// physically removed; deletion marks them.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusDeleted UserStatus = "deleted"
)

// User is an account record. Email is stored lower-cased and is unique across
// non-deleted accounts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Username     string
	Status       UserStatus
	LastLoginAt  *time.Time
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the invariants every persisted user must satisfy.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("user: id is required")
	}
	if u.Email == "" {
		return errors.New("user: email is required")
	}
	if u.Username == "" {
		return errors.New("user: username is required")
	}
	if u.Status != UserStatusActive && u.Status != UserStatusDeleted {
		return errors.New("user: invalid status")
	}
	return nil
}
