package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the kind claim. Access tokens authorize individual
// requests; refresh tokens only mint new access tokens.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, or carries the wrong issuer/audience/kind.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the token is past its expiry but
	// otherwise well formed and correctly signed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims holds the JWT claims for both token kinds. The jti
// (RegisteredClaims.ID) is the revocation and session-lookup key.
type Claims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
}

// IssuedToken is a freshly signed token together with the identifiers the
// caller must persist.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// VerifiedToken is the decoded view of a valid token. Verification is pure:
// no store lookup happens here.
type VerifiedToken struct {
	UserID    string
	Kind      string
	JTI       string
	ExpiresAt time.Time
}

// TokenProvider issues and verifies signed bearer tokens using RS256 or ES256.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given private key
// (RSA or ECDSA). issuer and audience are set on claims and checked on verify.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access-token lifetime.
func (p *TokenProvider) AccessTTL() time.Duration { return p.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime. Session expiry
// mirrors this value.
func (p *TokenProvider) RefreshTTL() time.Duration { return p.refreshTTL }

// IssueAccess issues a short-lived access token for userID with a fresh jti.
func (p *TokenProvider) IssueAccess(userID string) (*IssuedToken, error) {
	return p.issue(userID, TokenKindAccess, p.accessTTL)
}

// IssueRefresh issues a long-lived refresh token for userID with a fresh jti.
func (p *TokenProvider) IssueRefresh(userID string) (*IssuedToken, error) {
	return p.issue(userID, TokenKindRefresh, p.refreshTTL)
}

func (p *TokenProvider) issue(userID, kind string, ttl time.Duration) (*IssuedToken, error) {
	jti, err := generateJTI()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind: kind,
	}
	token, err := p.sign(claims)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: token, JTI: jti, ExpiresAt: expiresAt}, nil
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	return t.SignedString(p.privateKey)
}

// Verify parses and validates a token of either kind (signature, exp, iss, aud).
// Returns ErrTokenExpired for well-signed but expired tokens and ErrInvalidToken
// for everything else that fails.
func (p *TokenProvider) Verify(tokenString string) (*VerifiedToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return p.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Kind != TokenKindAccess && claims.Kind != TokenKindRefresh {
		return nil, ErrInvalidToken
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &VerifiedToken{
		UserID:    claims.Subject,
		Kind:      claims.Kind,
		JTI:       claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
