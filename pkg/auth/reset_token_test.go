package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	first, err := GenerateResetToken()
	require.NoError(t, err)
	second, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.Len(t, second, 64)
	assert.NotEqual(t, first, second)
}

func TestHashResetToken_Deterministic(t *testing.T) {
	token, err := GenerateResetToken()
	require.NoError(t, err)

	// Lookup by equality depends on the same plaintext always hashing
	// to the same digest.
	assert.Equal(t, HashResetToken(token), HashResetToken(token))
	assert.NotEqual(t, token, HashResetToken(token))
	assert.Len(t, HashResetToken(token), 64)
}

func TestResetCodec_RoundTrip(t *testing.T) {
	codec := NewResetCodec("test-secret", time.Hour)

	token, err := GenerateResetToken()
	require.NoError(t, err)

	packed, err := codec.Serialize("foo@bar.com", token)
	require.NoError(t, err)

	email, gotToken, err := codec.Deserialize(packed)
	require.NoError(t, err)
	assert.Equal(t, "foo@bar.com", email)
	assert.Equal(t, token, gotToken)
}

func TestResetCodec_RejectsMalformed(t *testing.T) {
	codec := NewResetCodec("test-secret", time.Hour)

	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not-a-reset-string"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := codec.Deserialize(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestResetCodec_RejectsWrongKey(t *testing.T) {
	packed, err := NewResetCodec("secret-a", time.Hour).Serialize("foo@bar.com", "tok")
	require.NoError(t, err)

	_, _, err = NewResetCodec("secret-b", time.Hour).Deserialize(packed)
	assert.Error(t, err)
}

func TestResetCodec_RejectsExpired(t *testing.T) {
	packed, err := NewResetCodec("secret", -time.Minute).Serialize("foo@bar.com", "tok")
	require.NoError(t, err)

	_, _, err = NewResetCodec("secret", -time.Minute).Deserialize(packed)
	assert.Error(t, err)
}
