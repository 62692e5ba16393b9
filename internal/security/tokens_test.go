package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAccessAndRefresh(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	access, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if access.Token == "" || access.JTI == "" {
		t.Fatal("access token or jti empty")
	}
	if access.ExpiresAt.Before(time.Now()) {
		t.Fatal("access expires at in the past")
	}

	refresh, err := p.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if refresh.Token == "" || refresh.JTI == "" {
		t.Fatal("refresh token or jti empty")
	}
	if refresh.JTI == access.JTI {
		t.Fatal("access and refresh must carry distinct jtis")
	}
	if !refresh.ExpiresAt.After(access.ExpiresAt) {
		t.Error("refresh token should outlive access token")
	}

	got, err := p.Verify(access.Token)
	if err != nil {
		t.Fatalf("Verify access: %v", err)
	}
	if got.UserID != "u1" || got.Kind != TokenKindAccess || got.JTI != access.JTI {
		t.Errorf("Verify access: got userID=%q kind=%q jti=%q", got.UserID, got.Kind, got.JTI)
	}

	got, err = p.Verify(refresh.Token)
	if err != nil {
		t.Fatalf("Verify refresh: %v", err)
	}
	if got.Kind != TokenKindRefresh || got.JTI != refresh.JTI {
		t.Errorf("Verify refresh: got kind=%q jti=%q", got.Kind, got.JTI)
	}
}

func TestTokenProvider_FreshJTIPerIssue(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		tok, err := p.IssueAccess("u1")
		if err != nil {
			t.Fatalf("IssueAccess: %v", err)
		}
		if seen[tok.JTI] {
			t.Fatalf("jti %q issued twice", tok.JTI)
		}
		seen[tok.JTI] = true
	}
}

func TestTokenProvider_VerifyMalformed(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, err := p.Verify("not-a-token"); err != ErrInvalidToken {
		t.Errorf("malformed token: want ErrInvalidToken, got %v", err)
	}
	if _, err := p.Verify(""); err != ErrInvalidToken {
		t.Errorf("empty token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_VerifyExpired(t *testing.T) {
	p, err := NewTestTokenProviderTTL(-1*time.Minute, -1*time.Minute)
	if err != nil {
		t.Fatalf("NewTestTokenProviderTTL: %v", err)
	}
	tok, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := p.Verify(tok.Token); err != ErrTokenExpired {
		t.Errorf("expired token: want ErrTokenExpired, got %v", err)
	}
}

func TestTokenProvider_VerifyWrongIssuer(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	other := NewTokenProvider(signer, pub, "someone-else", "yookye-api", time.Hour, time.Hour)
	tok, err := other.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, err := p.Verify(tok.Token); err != ErrInvalidToken {
		t.Errorf("wrong issuer: want ErrInvalidToken, got %v", err)
	}
}
