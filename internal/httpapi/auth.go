package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Amar9nani/Stock-inventory-management/internal/cache"
	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
)

const tokenIssuer = "stock-inventory"

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errInvalidToken       = errors.New("invalid or expired token")
)

// AuthManager issues and checks access tokens and hashes passwords.
type AuthManager struct {
	secret   []byte
	tokenTTL time.Duration
	revoked  cache.RevocationList
	cost     int
	dummy    []byte
}

type stockClaims struct {
	jwtlib.RegisteredClaims
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

func NewAuthManager(secret string, tokenTTL time.Duration, revoked cache.RevocationList) *AuthManager {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if revoked == nil {
		revoked = cache.NewMemoryRevocationList()
	}

	manager := &AuthManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		revoked:  revoked,
		cost:     bcrypt.DefaultCost,
	}
	// Compared against when the username is unknown so both paths cost a bcrypt check.
	manager.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), manager.cost)
	return manager
}

func (a *AuthManager) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (a *AuthManager) VerifyPassword(stored string, input string) bool {
	if stored == "" || strings.TrimSpace(input) == "" || !isPasswordHash(stored) {
		_ = bcrypt.CompareHashAndPassword(a.dummy, []byte(input))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

func (a *AuthManager) IssueToken(user domain.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(a.tokenTTL)
	claims := stockClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    tokenIssuer,
		},
		Username: user.Username,
		Role:     user.Role,
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (a *AuthManager) ParseToken(ctx context.Context, tokenStr string) (domain.Actor, error) {
	claims := &stockClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}), jwtlib.WithIssuer(tokenIssuer), jwtlib.WithExpirationRequired())
	if err != nil || !token.Valid {
		return domain.Actor{}, errInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 1 || claims.ID == "" {
		return domain.Actor{}, errors.New("invalid token subject")
	}

	revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Actor{}, err
	}
	if revoked {
		return domain.Actor{}, errInvalidToken
	}

	return domain.Actor{
		UserID:    userID,
		Username:  claims.Username,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the actor's token until it would have expired anyway.
func (a *AuthManager) Revoke(ctx context.Context, actor domain.Actor) error {
	return a.revoked.Revoke(ctx, actor.TokenID, actor.ExpiresAt)
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
