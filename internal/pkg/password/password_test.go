package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashWithCost("admin123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "admin123", hash)
	assert.True(t, Verify("admin123", hash))
	assert.False(t, Verify("admin124", hash))
}

func TestHashWithCost_OutOfRangeFallsBack(t *testing.T) {
	hash, err := HashWithCost("secret-pass", 1)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("long-enough"))
}
