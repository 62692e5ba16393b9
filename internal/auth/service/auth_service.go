package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	revocationdomain "yookye/backend/internal/revocation/domain"
	"yookye/backend/internal/security"
	sessiondomain "yookye/backend/internal/session/domain"
	userdomain "yookye/backend/internal/user/domain"
)

// Sentinel errors for the auth service; handlers map them to HTTP statuses.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrNoActiveSession    = errors.New("no active session for token")
	ErrForbidden          = errors.New("forbidden")
	// ErrStorageUnavailable wraps store faults. It must stay distinguishable
	// from credential failures; never fold one into the other.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// DefaultStoreTimeout bounds each store call when the service is built with a
// zero timeout.
const DefaultStoreTimeout = 5 * time.Second

// OriginMeta is the client origin recorded on a session at login.
type OriginMeta struct {
	IPAddress string
	UserAgent string
}

// AuthResult holds the outcome of Register, Login, or Refresh.
type AuthResult struct {
	User         *userdomain.User
	SessionID    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Identity is the outcome of Authorize, injected into the request context by
// the auth middleware.
type Identity struct {
	UserID    string
	SessionID string
	AccessJti string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	Update(ctx context.Context, u *userdomain.User) error
	MarkDeleted(ctx context.Context, id string, at time.Time) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	GetActiveByAccessJti(ctx context.Context, jti string) (*sessiondomain.Session, error)
	GetActiveByRefreshJti(ctx context.Context, jti string) (*sessiondomain.Session, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*sessiondomain.Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	UpdateAccessJti(ctx context.Context, id, jti string) error
	Revoke(ctx context.Context, id, reason string, at time.Time) error
	RevokeAllByUser(ctx context.Context, userID, reason string, at time.Time) (int64, error)
}

// RevocationRepo is the token blacklist consumed by the auth service.
type RevocationRepo interface {
	Add(ctx context.Context, e *revocationdomain.Entry) error
	Exists(ctx context.Context, jti string) (bool, error)
}

// AuthService orchestrates credential checks, token issuance, the session
// registry, and the revocation list.
type AuthService struct {
	userRepo       UserRepo
	sessionRepo    SessionRepo
	revocationRepo RevocationRepo
	hasher         *security.Hasher
	tokens         *security.TokenProvider
	storeTimeout   time.Duration
	logger         *slog.Logger
}

// NewAuthService returns an AuthService with the given dependencies.
// storeTimeout bounds every store call; zero means DefaultStoreTimeout.
func NewAuthService(
	userRepo UserRepo,
	sessionRepo SessionRepo,
	revocationRepo RevocationRepo,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *AuthService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		revocationRepo: revocationRepo,
		hasher:         hasher,
		tokens:         tokens,
		storeTimeout:   storeTimeout,
		logger:         logger,
	}
}

// Register creates an account and, like Login, opens a session so the returned
// tokens authorize requests immediately.
func (s *AuthService) Register(ctx context.Context, email, password, name, username string, origin OriginMeta) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}

	existing, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(name),
		Username:     username,
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.store(ctx, "user create", func(ctx context.Context) error {
		return s.userRepo.Create(ctx, user)
	}); err != nil {
		return nil, err
	}
	return s.openSession(ctx, user, origin)
}

// Login authenticates with email/password, opens a session, and returns tokens.
func (s *AuthService) Login(ctx context.Context, email, password string, origin OriginMeta) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != userdomain.UserStatusActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.store(ctx, "user update", func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	}); err != nil {
		return nil, err
	}
	return s.openSession(ctx, user, origin)
}

// openSession issues an access+refresh pair with distinct fresh jtis and
// creates the active session row keyed by the access jti.
func (s *AuthService) openSession(ctx context.Context, user *userdomain.User, origin OriginMeta) (*AuthResult, error) {
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &sessiondomain.Session{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		AccessJti:  access.JTI,
		RefreshJti: refresh.JTI,
		IPAddress:  origin.IPAddress,
		UserAgent:  origin.UserAgent,
		ExpiresAt:  refresh.ExpiresAt,
		CreatedAt:  now,
	}
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := s.store(ctx, "session create", func(ctx context.Context) error {
		return s.sessionRepo.Create(ctx, sess)
	}); err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user,
		SessionID:    sess.ID,
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		ExpiresAt:    access.ExpiresAt,
	}, nil
}

// Refresh mints a new access token from a refresh token. The refresh jti is
// checked against the revocation list and must still belong to an active
// session, so tokens from a logged-out session cannot mint access tokens. The
// session is rebound to the new access jti; the refresh token is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	verified, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	if verified.Kind != security.TokenKindRefresh {
		return nil, security.ErrInvalidToken
	}
	revoked, err := s.isRevoked(ctx, verified.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	var sess *sessiondomain.Session
	if err := s.store(ctx, "session lookup", func(ctx context.Context) error {
		var err error
		sess, err = s.sessionRepo.GetActiveByRefreshJti(ctx, verified.JTI)
		return err
	}); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	if !sess.Active(now) {
		if err := s.expireSession(ctx, sess, now); err != nil {
			return nil, err
		}
		return nil, ErrNoActiveSession
	}

	var user *userdomain.User
	if err := s.store(ctx, "user lookup", func(ctx context.Context) error {
		var err error
		user, err = s.userRepo.GetByID(ctx, sess.UserID)
		return err
	}); err != nil {
		return nil, err
	}
	if user == nil || user.Status != userdomain.UserStatusActive {
		return nil, ErrNoActiveSession
	}

	access, err := s.tokens.IssueAccess(sess.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, "session rebind", func(ctx context.Context) error {
		return s.sessionRepo.UpdateAccessJti(ctx, sess.ID, access.JTI)
	}); err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user,
		SessionID:    sess.ID,
		AccessToken:  access.Token,
		RefreshToken: refreshToken,
		ExpiresAt:    access.ExpiresAt,
	}, nil
}

// Authorize validates an access token against the codec, the revocation list,
// and the session registry, in that order. On success it bumps the session's
// last-activity timestamp and returns the caller's identity.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (*Identity, error) {
	verified, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, err
	}
	if verified.Kind != security.TokenKindAccess {
		return nil, security.ErrInvalidToken
	}
	revoked, err := s.isRevoked(ctx, verified.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	var sess *sessiondomain.Session
	if err := s.store(ctx, "session lookup", func(ctx context.Context) error {
		var err error
		sess, err = s.sessionRepo.GetActiveByAccessJti(ctx, verified.JTI)
		return err
	}); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	if !sess.Active(now) {
		if err := s.expireSession(ctx, sess, now); err != nil {
			return nil, err
		}
		return nil, ErrNoActiveSession
	}
	if err := s.store(ctx, "session touch", func(ctx context.Context) error {
		return s.sessionRepo.Touch(ctx, sess.ID, now)
	}); err != nil {
		return nil, err
	}
	return &Identity{
		UserID:    verified.UserID,
		SessionID: sess.ID,
		AccessJti: verified.JTI,
	}, nil
}

// Logout blacklists the current access jti and deactivates every active
// session of the user, across all devices.
func (s *AuthService) Logout(ctx context.Context, identity *Identity) error {
	now := time.Now().UTC()
	if err := s.revoke(ctx, identity.AccessJti, identity.UserID, now); err != nil {
		return err
	}
	return s.store(ctx, "session revoke all", func(ctx context.Context) error {
		_, err := s.sessionRepo.RevokeAllByUser(ctx, identity.UserID, sessiondomain.RevokeReasonLogout, now)
		return err
	})
}

// ListSessions returns the user's active sessions, newest first.
func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]*sessiondomain.Session, error) {
	var sessions []*sessiondomain.Session
	err := s.store(ctx, "session list", func(ctx context.Context) error {
		var err error
		sessions, err = s.sessionRepo.ListActiveByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// RevokeSession deactivates one session owned by requestingUserID and
// blacklists its access jti so the device's token stops working at once.
// Revoking an already-inactive session is a no-op success.
func (s *AuthService) RevokeSession(ctx context.Context, sessionID, requestingUserID string) error {
	var sess *sessiondomain.Session
	if err := s.store(ctx, "session lookup", func(ctx context.Context) error {
		var err error
		sess, err = s.sessionRepo.GetByID(ctx, sessionID)
		return err
	}); err != nil {
		return err
	}
	if sess == nil {
		return ErrNoActiveSession
	}
	if sess.UserID != requestingUserID {
		return ErrForbidden
	}
	if sess.RevokedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	if err := s.revoke(ctx, sess.AccessJti, sess.UserID, now); err != nil {
		return err
	}
	return s.store(ctx, "session revoke", func(ctx context.Context) error {
		return s.sessionRepo.Revoke(ctx, sess.ID, sessiondomain.RevokeReasonRevoke, now)
	})
}

// Profile returns the account for userID.
func (s *AuthService) Profile(ctx context.Context, userID string) (*userdomain.User, error) {
	var user *userdomain.User
	if err := s.store(ctx, "user lookup", func(ctx context.Context) error {
		var err error
		user, err = s.userRepo.GetByID(ctx, userID)
		return err
	}); err != nil {
		return nil, err
	}
	if user == nil || user.Status != userdomain.UserStatusActive {
		return nil, ErrNoActiveSession
	}
	return user, nil
}

// UpdateProfile changes name and username. Email is the login key and is not
// editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, username string) (*userdomain.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if username = strings.TrimSpace(username); username != "" {
		user.Username = username
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.store(ctx, "user update", func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	}); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount soft-deletes the account after re-checking the password, then
// blacklists the current access jti and deactivates every session.
func (s *AuthService) DeleteAccount(ctx context.Context, identity *Identity, password string) error {
	user, err := s.Profile(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	now := time.Now().UTC()
	if err := s.store(ctx, "user delete", func(ctx context.Context) error {
		return s.userRepo.MarkDeleted(ctx, user.ID, now)
	}); err != nil {
		return err
	}
	if err := s.revoke(ctx, identity.AccessJti, user.ID, now); err != nil {
		return err
	}
	return s.store(ctx, "session revoke all", func(ctx context.Context) error {
		_, err := s.sessionRepo.RevokeAllByUser(ctx, user.ID, sessiondomain.RevokeReasonRevoke, now)
		return err
	})
}

func (s *AuthService) getUserByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var user *userdomain.User
	err := s.store(ctx, "user lookup", func(ctx context.Context) error {
		var err error
		user, err = s.userRepo.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) isRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.store(ctx, "revocation check", func(ctx context.Context) error {
		var err error
		revoked, err = s.revocationRepo.Exists(ctx, jti)
		return err
	})
	if err != nil {
		return false, err
	}
	return revoked, nil
}

func (s *AuthService) revoke(ctx context.Context, jti, userID string, at time.Time) error {
	return s.store(ctx, "revocation add", func(ctx context.Context) error {
		return s.revocationRepo.Add(ctx, &revocationdomain.Entry{
			Jti:       jti,
			UserID:    userID,
			RevokedAt: at,
		})
	})
}

// expireSession lazily deactivates a session found past its expiry.
func (s *AuthService) expireSession(ctx context.Context, sess *sessiondomain.Session, now time.Time) error {
	if sess.RevokedAt != nil {
		return nil
	}
	return s.store(ctx, "session expire", func(ctx context.Context) error {
		return s.sessionRepo.Revoke(ctx, sess.ID, sessiondomain.RevokeReasonExpiry, now)
	})
}

// store runs one bounded store call, logging and wrapping any failure as
// ErrStorageUnavailable so it never masquerades as a credential error.
func (s *AuthService) store(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		s.logger.Error("store call failed", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
