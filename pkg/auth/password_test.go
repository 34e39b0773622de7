package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltsPerCall(t *testing.T) {
	first, err := HashPassword("luggage12345")
	require.NoError(t, err)
	second, err := HashPassword("luggage12345")
	require.NoError(t, err)

	// Same plaintext, different stored hashes.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("luggage12345", first))
	assert.True(t, CheckPasswordHash("luggage12345", second))
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
	assert.False(t, CheckPasswordHash("", hash))
	assert.False(t, CheckPasswordHash("correct horse", "not-a-bcrypt-hash"))
}

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("sesame-open")
	require.NoError(t, err)
	assert.NotContains(t, hash, "sesame-open")
}
