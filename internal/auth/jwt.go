package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret is returned when a token manager is built without a signing key.
	ErrMissingSecret = errors.New("jwt signing secret is empty")
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// JWTManager signs HS256 tokens without an expiry claim. Tokens stay valid until
// the secret is rotated.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

// NewJWTManager creates a JWTManager for the given secret.
func NewJWTManager(secret string) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTManager{secret: []byte(secret), now: time.Now}, nil
}

// Issue creates a signed token for the user.
func (m *JWTManager) Issue(userID string) (string, error) {
	if m == nil || len(m.secret) == 0 {
		return "", ErrMissingSecret
	}
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(m.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns the user ID it carries.
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	if m == nil || len(m.secret) == 0 {
		return "", ErrMissingSecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
