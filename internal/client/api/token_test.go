package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "u1"}
	if exp != nil {
		claims["exp"] = exp.Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	got, ok := TokenExpiry(signedToken(t, &exp))
	require.True(t, ok)
	require.WithinDuration(t, exp, got, time.Second)
}

func TestTokenExpiry_NoExpClaim(t *testing.T) {
	_, ok := TokenExpiry(signedToken(t, nil))
	require.False(t, ok)
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	_, ok := TokenExpiry("not-a-jwt-at-all")
	require.False(t, ok)
}
