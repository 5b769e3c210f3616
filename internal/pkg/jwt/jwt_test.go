package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	token, expiresAt, err := GenerateAccessToken("admin-1", "admin", "superadmin", secret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := ValidateAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "superadmin", claims.Role)
	assert.InDelta(t, time.Hour.Seconds(), claims.ExpiresIn(time.Now()).Seconds(), 2)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, _, err := GenerateAccessToken("admin-1", "admin", "admin", secret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_Expired(t *testing.T) {
	token, _, err := GenerateAccessToken("admin-1", "admin", "admin", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := ValidateAccessToken("not-a-token", secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		AdminID: "admin-1",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
