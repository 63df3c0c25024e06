package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSetupSecret = "test-setup-secret-0123456789abcdef"

func TestNewSetupTokenService_ShortSecret(t *testing.T) {
	_, err := NewSetupTokenService("too-short")
	assert.Error(t, err)
}

func TestSetupTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewSetupTokenService(testSetupSecret)
	require.NoError(t, err)

	clubID := uint(7)
	token, err := svc.Issue(42, "admin@club.example", TokenTypeAdminSetup, &clubID, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@club.example", claims.Email)
	assert.Equal(t, TokenTypeAdminSetup, claims.TokenType)
	require.NotNil(t, claims.ClubID)
	assert.Equal(t, uint(7), *claims.ClubID)
	assert.NotEmpty(t, claims.ID, "jti must be set for single-use tracking")
}

func TestSetupTokenService_Issue_JTIUnique(t *testing.T) {
	svc, err := NewSetupTokenService(testSetupSecret)
	require.NoError(t, err)

	first, err := svc.Issue(1, "a@b.c", TokenTypeParentSetup, nil, time.Hour)
	require.NoError(t, err)
	second, err := svc.Issue(1, "a@b.c", TokenTypeParentSetup, nil, time.Hour)
	require.NoError(t, err)

	c1, err := svc.Verify(first)
	require.NoError(t, err)
	c2, err := svc.Verify(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestSetupTokenService_Issue_InvalidType(t *testing.T) {
	svc, err := NewSetupTokenService(testSetupSecret)
	require.NoError(t, err)

	_, err = svc.Issue(1, "a@b.c", "owner_setup", nil, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestSetupTokenService_Verify_Expired(t *testing.T) {
	svc, err := NewSetupTokenService(testSetupSecret)
	require.NoError(t, err)

	// Подписываем токен с истекшим сроком напрямую, минуя Issue
	now := time.Now()
	claims := &SetupTokenClaims{
		UserID:    1,
		Email:     "a@b.c",
		TokenType: TokenTypeParentSetup,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSetupSecret))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSetupTokenService_Verify_WrongSecret(t *testing.T) {
	issuer, err := NewSetupTokenService(testSetupSecret)
	require.NoError(t, err)
	verifier, err := NewSetupTokenService("another-secret-0123456789abcdefgh")
	require.NoError(t, err)

	token, err := issuer.Issue(1, "a@b.c", TokenTypeCoachSetup, nil, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestSetupTokenService_Verify_Malformed(t *testing.T) {
	svc, err := NewSetupTokenService(testSetupSecret)
	require.NoError(t, err)

	_, err = svc.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestSetupTokenService_Verify_UnknownTokenType(t *testing.T) {
	svc, err := NewSetupTokenService(testSetupSecret)
	require.NoError(t, err)

	// Токен подписан верным ключом, но несет неизвестный тип
	claims := &SetupTokenClaims{
		UserID:    1,
		Email:     "a@b.c",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSetupSecret))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestSetupTokenService_Verify_MissingJTI(t *testing.T) {
	svc, err := NewSetupTokenService(testSetupSecret)
	require.NoError(t, err)

	claims := &SetupTokenClaims{
		UserID:    1,
		Email:     "a@b.c",
		TokenType: TokenTypeParentSetup,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSetupSecret))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrMalformedToken)
}
