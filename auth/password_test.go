package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, VerifyPassword(hash, "secret123"))
	assert.ErrorIs(t, VerifyPassword(hash, "secret124"), ErrPasswordMismatch)
	assert.ErrorIs(t, VerifyPassword("", "secret123"), ErrPasswordMismatch)
	assert.ErrorIs(t, VerifyPassword("not-a-hash", "secret123"), ErrPasswordMismatch)
}

func TestBurnCompare(t *testing.T) {
	assert.NotPanics(t, func() {
		BurnCompare("anything")
		BurnCompare("")
	})
}
