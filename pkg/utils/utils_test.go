package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"))
	assert.NotContains(t, hash, "hunter22")

	ok, err := VerifyPassword("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hunter23", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	for _, h := range []string{"", "plaintext", "$bcrypt$x$y$z$w", "$argon2id$v=19$m=x$a$b"} {
		ok, err := VerifyPassword("pw", h)
		assert.False(t, ok, h)
		assert.ErrorIs(t, err, ErrInvalidHash, h)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
	assert.Error(t, ValidatePassword(strings.Repeat("a", 129)))
}

func TestValidateUsername(t *testing.T) {
	cases := map[string]bool{
		"ab":                     false,
		"abc":                    true,
		"runner_01":              true,
		"_runner":                false,
		"run-ner":                false,
		"averyveryverylongname1": false,
	}
	for name, valid := range cases {
		err := ValidateUsername(name)
		if valid {
			assert.NoError(t, err, name)
		} else {
			assert.Error(t, err, name)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice "))
	assert.Equal(t, "a@b.io", NormalizeEmail(" A@B.io"))
}
