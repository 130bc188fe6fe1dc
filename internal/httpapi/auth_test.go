package httpapi

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Amar9nani/Stock-inventory-management/internal/cache"
	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
)

func newTestAuth(ttl time.Duration) *AuthManager {
	auth := NewAuthManager(testSecret, ttl, cache.NewMemoryRevocationList())
	auth.cost = bcrypt.MinCost
	return auth
}

func TestIssueAndParseToken(t *testing.T) {
	auth := newTestAuth(time.Hour)
	user := domain.User{ID: 7, Username: "clerk", Role: domain.RoleUser}

	token, expiresAt, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if time.Until(expiresAt) <= 50*time.Minute {
		t.Fatalf("expected expiry about an hour out, got %s", expiresAt)
	}

	actor, err := auth.ParseToken(context.Background(), token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.UserID != 7 || actor.Username != "clerk" || actor.Role != domain.RoleUser {
		t.Fatalf("unexpected actor %+v", actor)
	}
	if actor.TokenID == "" {
		t.Fatalf("expected token id to be set")
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	auth := newTestAuth(time.Hour)
	other := NewAuthManager("a-completely-different-secret-value", time.Hour, nil)

	token, _, err := other.IssueToken(domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := auth.ParseToken(context.Background(), token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	auth := newTestAuth(time.Hour)
	claims := stockClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        "forged",
			Subject:   "1",
			Issuer:    tokenIssuer,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "admin",
		Role:     domain.RoleAdmin,
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := auth.ParseToken(context.Background(), token); err == nil {
		t.Fatalf("expected unsigned token to be rejected")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	auth := newTestAuth(time.Hour)
	claims := stockClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        "old",
			Subject:   "1",
			Issuer:    tokenIssuer,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Username: "admin",
		Role:     domain.RoleAdmin,
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := auth.ParseToken(context.Background(), token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestRevokedTokenIsRejected(t *testing.T) {
	auth := newTestAuth(time.Hour)
	ctx := context.Background()

	token, _, err := auth.IssueToken(domain.User{ID: 3, Username: "clerk", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	actor, err := auth.ParseToken(ctx, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if err := auth.Revoke(ctx, actor); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := auth.ParseToken(ctx, token); err == nil {
		t.Fatalf("expected revoked token to be rejected")
	}
}

func TestVerifyPassword(t *testing.T) {
	auth := newTestAuth(time.Hour)
	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !isPasswordHash(hash) {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !auth.VerifyPassword(hash, "s3cret-pass") {
		t.Fatalf("expected matching password to verify")
	}
	if auth.VerifyPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}
	if auth.VerifyPassword("", "s3cret-pass") {
		t.Fatalf("expected empty stored hash to fail")
	}
	if auth.VerifyPassword("s3cret-pass", "s3cret-pass") {
		t.Fatalf("expected plaintext stored value to fail")
	}
}
