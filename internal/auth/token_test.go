package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthive/illustration-platform/internal/domain"
)

var testConfig = Config{
	Secret:   "unit-test-secret",
	Issuer:   "auth-service",
	Audience: "illustration-platform",
}

func testUser() *domain.User {
	return &domain.User{
		ID:       "8f14e45f-ceea-4e7b-9c6d-0123456789ab",
		Email:    "artist@example.com",
		Role:     "User",
		IsActive: true,
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager(testConfig)
	user := testUser()

	token, expiresAt, err := tm.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), expiresAt, 5*time.Second)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, testConfig.Issuer, claims.Issuer)
	require.Len(t, claims.Audience, 1)
	assert.Equal(t, testConfig.Audience, claims.Audience[0])
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager(testConfig).Issue(testUser())
	require.NoError(t, err)

	other := NewTokenManager(Config{
		Secret:   "a-different-secret",
		Issuer:   testConfig.Issuer,
		Audience: testConfig.Audience,
	})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	issuing := NewTokenManager(Config{
		Secret:   testConfig.Secret,
		Issuer:   "some-other-service",
		Audience: testConfig.Audience,
	})
	token, _, err := issuing.Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager(testConfig).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	issuing := NewTokenManager(Config{
		Secret:   testConfig.Secret,
		Issuer:   testConfig.Issuer,
		Audience: "another-platform",
	})
	token, _, err := issuing.Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager(testConfig).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredTokenWithoutLeeway(t *testing.T) {
	tm := NewTokenManager(testConfig)

	// Expired one second ago; no grace window applies.
	claims := &Claims{
		ID:    "user-1",
		Email: "artist@example.com",
		Role:  "User",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testConfig.Issuer,
			Audience:  jwt.ClaimStrings{testConfig.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresExpiryClaim(t *testing.T) {
	tm := NewTokenManager(testConfig)

	claims := &Claims{
		ID:    "user-1",
		Email: "artist@example.com",
		Role:  "User",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   testConfig.Issuer,
			Audience: jwt.ClaimStrings{testConfig.Audience},
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	tm := NewTokenManager(testConfig)

	claims := &Claims{
		ID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testConfig.Issuer,
			Audience:  jwt.ClaimStrings{testConfig.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	tm := NewTokenManager(testConfig)

	for _, tokenStr := range []string{"", "not-a-jwt", "a.b.c", "   "} {
		_, err := tm.Verify(tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenStr)
	}
}

func TestVerifyFailureIsOpaque(t *testing.T) {
	tm := NewTokenManager(testConfig)

	expired := &Claims{
		ID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testConfig.Issuer,
			Audience:  jwt.ClaimStrings{testConfig.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	_, expiredErr := tm.Verify(expiredToken)
	_, malformedErr := tm.Verify("garbage")

	// Expired and malformed tokens are indistinguishable to callers.
	assert.Equal(t, expiredErr, malformedErr)
	assert.ErrorIs(t, expiredErr, ErrInvalidToken)
}
