package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	token, claims, err := signer.GenerateToken(42)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "42", claims.Subject)

	parsed, err := signer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), parsed.UserID)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestSigner_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewSigner("one", time.Hour).GenerateToken(1)
	require.NoError(t, err)

	_, err = NewSigner("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestSigner_RejectsExpired(t *testing.T) {
	token, _, err := NewSigner("k", -time.Minute).GenerateToken(1)
	require.NoError(t, err)

	_, err = NewSigner("k", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSigner_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{ID: "abc"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSigner("k", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse 1")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("correct horse 1", hash))
	assert.False(t, VerifyPassword("wrong horse 1", hash))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"abc123", false},
		{"abcdefgh", false},
		{"12345678", false},
		{"hunter22", true},
		{"a1" + string(make([]byte, 80)), false},
	}

	for _, tt := range tests {
		err := ValidatePasswordStrength(tt.password)
		if tt.valid {
			assert.NoError(t, err, tt.password)
		} else {
			assert.Error(t, err, tt.password)
		}
	}
}
