package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "ngo@example.org", "NGO", "secret", 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ngo@example.org", claims.Email)
	assert.Equal(t, "NGO", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.c", "VOLUNTEER", "secret", 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.c", "VOLUNTEER", "secret", -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "tid-1", "refresh", 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, "refresh")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "tid-1", claims.TokenID)

	_, err = ValidateAccessToken("garbage", "refresh")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
