package domain

import "time"

// Entry is one blacklisted token id. The list is append-only; once a jti is
// present it never becomes valid again.
type Entry struct {
	Jti       string
	UserID    string
	RevokedAt time.Time
}
