package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/arthive/illustration-platform/internal/domain"
)

// TokenTTL is the fixed lifetime of every issued token. Revocation before
// expiry is only possible by deactivating the account, which is re-checked
// on every validation.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is the single failure returned by Verify. Expired,
// malformed, wrongly signed and wrong-issuer/audience tokens are
// indistinguishable to callers so that no signature or format detail leaks.
var ErrInvalidToken = errors.New("invalid token")

// Config carries the signing parameters. It is immutable after construction
// and must match between the issuing and any verifying process.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
}

// TokenManager issues and verifies JWT bearer tokens.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenManager builds a new manager.
func NewTokenManager(cfg Config) *TokenManager {
	return &TokenManager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

// Claims describes the JWT payload. The id/email/role claim names are a
// cross-service contract; downstream verifiers rely on them bit-exactly.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the user.
func (tm *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(TokenTTL)
	claims := &Claims{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates signature, issuer, audience and expiry (no leeway) and
// returns the embedded claims. Any failure maps to ErrInvalidToken.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return tm.secret, nil
		},
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
