package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, pw := range []string{"secret1", "correct horse battery staple", "ümlaut-пароль", " "} {
		h, err := HashPassword(pw, bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, pw, h)
		assert.True(t, VerifyPassword(h, pw), "password %q", pw)
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "secret1"))
	assert.True(t, VerifyPassword(h2, "secret1"))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	h, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, VerifyPassword(h, "secret2"))
	assert.False(t, VerifyPassword(h, ""))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "secret1"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "secret1"))
	assert.False(t, VerifyPassword("$2a$10$short", "secret1"))
}

func TestHashPassword_OutOfRangeCostUsesDefault(t *testing.T) {
	h, err := HashPassword("pw", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBurnPasswordCheck_DoesNotPanic(t *testing.T) {
	BurnPasswordCheck("anything", bcrypt.MinCost)
	BurnPasswordCheck("anything", bcrypt.MinCost)
	_, ok := dummyHashes.Load(bcrypt.MinCost)
	assert.True(t, ok)
}
