package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, h.ComparePasswords(hash, "secret123"))
	assert.ErrorIs(t, h.ComparePasswords(hash, "secret124"), ErrInvalidCredentials)

	other, err := h.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salted")
}

func TestPasswordHasher_ByteLimit(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	_, err := h.HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)

	// 40 characters, 80 bytes.
	_, err = h.HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}
