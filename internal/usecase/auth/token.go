package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long an admin session lasts.
const DefaultTokenTTL = time.Hour

const minSecretLength = 32

var weakSecrets = []string{"secret", "password", "test", "admin", "default", "changeme"}

// Token errors.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims of an admin session.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer validates secret and returns an issuer. A ttl of zero uses
// DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// ValidateSecret requires at least 32 characters and rejects well-known values.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT secret must be set")
	}
	if len(secret) < minSecretLength {
		return fmt.Errorf("JWT secret must be at least %d characters (256 bits)", minSecretLength)
	}
	if isRepeatedChar(secret) {
		return errors.New("JWT secret must not be a repeated character")
	}
	base := strings.Trim(strings.ToLower(secret), "0123456789")
	for _, weak := range weakSecrets {
		if base == weak {
			return errors.New("JWT secret must not be a common weak value")
		}
	}
	return nil
}

// Issue signs a token for email with role. It returns the token and its expiry.
func (i *TokenIssuer) Issue(email, role string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies a token and returns its claims. Only HS256 is accepted and
// both exp and sub are required.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// ParseBearer parses the value of an Authorization header.
func (i *TokenIssuer) ParseBearer(header string) (*Claims, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, ErrMissingToken
	}
	return i.Parse(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
}
