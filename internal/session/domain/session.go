package domain

import (
	"errors"
	"time"
)

// Revocation reasons recorded on a session when it stops being active.
const (
	RevokeReasonLogout = "logout"
	RevokeReasonRevoke = "revoke"
	RevokeReasonExpiry = "expiry"
)

// Session tracks one authenticated device. It is keyed by the jti of the
// access token that opened it; a refresh swaps AccessJti in place rather than
// opening a new session.
type Session struct {
	ID             string
	UserID         string
	AccessJti      string
	RefreshJti     string
	IPAddress      string
	UserAgent      string
	ExpiresAt      time.Time
	LastActivityAt *time.Time
	RevokedAt      *time.Time
	RevokeReason   string
	CreatedAt      time.Time
}

// Active reports whether the session can still authorize requests at the
// given instant.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session: id is required")
	}
	if s.UserID == "" {
		return errors.New("session: user id is required")
	}
	if s.AccessJti == "" {
		return errors.New("session: access jti is required")
	}
	if s.ExpiresAt.IsZero() {
		return errors.New("session: expiry is required")
	}
	return nil
}
