package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "ADMIN", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	uid, role, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, uid)
	assert.Equal(t, "ADMIN", role)
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, err := NewAccessToken("secret", 1, "CLIENT", 15)
	require.NoError(t, err)

	_, _, err = ParseAccessToken("other-secret", good.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken("secret", 1, "CLIENT", -1)
	require.NoError(t, err)
	_, _, err = ParseAccessToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// HS512 is not accepted even with the right key
	other := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := other.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, _, err = ParseAccessToken("secret", signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = ParseAccessToken("secret", "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "admin123"))
	assert.False(t, VerifyPassword(hash, "admin124"))
}
