package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Setup token types. Closed set; unknown values are rejected on verify.
const (
	TokenTypeAdminSetup  = "admin_setup"
	TokenTypeCoachSetup  = "coach_setup"
	TokenTypeParentSetup = "parent_setup"
)

// IsValidTokenType reports whether t belongs to the closed set.
func IsValidTokenType(t string) bool {
	switch t {
	case TokenTypeAdminSetup, TokenTypeCoachSetup, TokenTypeParentSetup:
		return true
	}
	return false
}

// Codec errors. Callers match with errors.Is.
var (
	ErrMalformedToken   = errors.New("malformed setup token")
	ErrInvalidSignature = errors.New("invalid setup token signature")
	ErrTokenExpired     = errors.New("setup token expired")
	ErrInvalidTokenType = errors.New("invalid setup token type")
)

// SetupTokenClaims carries the payload of a signed setup token. The JTI from
// RegisteredClaims identifies the token for single-use consumption.
type SetupTokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	ClubID    *uint  `json:"club_id,omitempty"`
	jwt.RegisteredClaims
}

// SetupTokenService issues and verifies signed, expiring, single-purpose setup
// tokens. The signing secret is injected once at construction; verification
// never reads ambient state, so the service stays a pure function over its
// input and can be tested with a fixed secret.
type SetupTokenService struct {
	secret []byte
}

// NewSetupTokenService returns a codec bound to the given secret.
func NewSetupTokenService(secret string) (*SetupTokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("setup token secret must be at least 32 bytes")
	}
	return &SetupTokenService{secret: []byte(secret)}, nil
}

// Issue creates a signed token with a fresh JTI and expiry of now+ttl.
func (s *SetupTokenService) Issue(userID uint, email, tokenType string, clubID *uint, ttl time.Duration) (string, error) {
	if !IsValidTokenType(tokenType) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTokenType, tokenType)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("setup token ttl must be positive")
	}

	now := time.Now()
	claims := &SetupTokenClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		ClubID:    clubID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign setup token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims. It does
// not consult the consumption store; single-use enforcement is the replay
// guard's job.
func (s *SetupTokenService) Verify(tokenString string) (*SetupTokenClaims, error) {
	claims := &SetupTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrMalformedToken
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				return nil, ErrInvalidSignature
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	if !IsValidTokenType(claims.TokenType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenType, claims.TokenType)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrMalformedToken)
	}

	return claims, nil
}
