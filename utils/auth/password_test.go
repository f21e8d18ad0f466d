package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, VerifyPassword(hash, "correct-horse-battery"))
	assert.Error(t, VerifyPassword(hash, "wrong-password-123"))
}

func TestHashPasswordRejectsShortPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	second, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
