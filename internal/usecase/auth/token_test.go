package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdefghijklmnopqrstuvwxyz-portal"

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	i, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)
	return i
}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"empty", "", true},
		{"too short", "short-secret", true},
		{"repeated", strings.Repeat("a", 40), true},
		{"weak with digits", "secret" + strings.Repeat("1", 30), true},
		{"ok", testSecret, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.secret)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSecret() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	i := newTestIssuer(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	i.now = func() time.Time { return now }

	tok, exp, err := i.Issue("prensa@municipio.gob.ar", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := i.ParseBearer("Bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, "prensa@municipio.gob.ar", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)

	other, _, err := i.Issue("prensa@municipio.gob.ar", RoleAdmin)
	require.NoError(t, err)
	otherClaims, err := i.Parse(other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID, "every token gets its own jti")
}

func TestTokenIssuer_Rejects(t *testing.T) {
	i := newTestIssuer(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	i.now = func() time.Time { return now }
	valid, _, err := i.Issue("prensa@municipio.gob.ar", RoleAdmin)
	require.NoError(t, err)

	otherIssuer, err := NewTokenIssuer(testSecret+"-other", 0)
	require.NoError(t, err)
	foreign, _, err := otherIssuer.Issue("prensa@municipio.gob.ar", RoleAdmin)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		after  time.Duration
		want   error
	}{
		{"no bearer prefix", valid, 0, ErrMissingToken},
		{"empty bearer", "Bearer ", 0, ErrMissingToken},
		{"expired", "Bearer " + valid, 2 * time.Hour, ErrInvalidToken},
		{"other secret", "Bearer " + foreign, 0, ErrInvalidToken},
		{"alg none", "Bearer " + unsigned, 0, ErrInvalidToken},
		{"garbage", "Bearer abc.def.ghi", 0, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i.now = func() time.Time { return now.Add(tt.after) }
			_, err := i.ParseBearer(tt.header)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseBearer() error = %v, want %v", err, tt.want)
			}
		})
	}
}
