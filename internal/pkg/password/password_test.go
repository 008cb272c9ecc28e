package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	SetCost(bcrypt.MinCost)
	defer SetCost(DefaultCost)

	hash, err := Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, Verify("correct horse", hash))
	assert.False(t, Verify("battery staple", hash))
}

func TestHashToken_Deterministic(t *testing.T) {
	a := HashToken("token-value")
	b := HashToken("token-value")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashToken("other-token"))
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("longenough"))
}
