package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	hashed, err := hasher.Hash("pw1234")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1234", hashed)

	assert.NoError(t, verifier.Compare(hashed, "pw1234"))
	assert.ErrorIs(t, verifier.Compare(hashed, "pw12345"), bcrypt.ErrMismatchedHashAndPassword)
	assert.Error(t, verifier.Compare(hashed, ""))

	// Salted: the same password hashes differently.
	again, err := hasher.Hash("pw1234")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again)
}

func TestNewBcryptHasherCost(t *testing.T) {
	assert.Equal(t, 10, NewBcryptHasher(10).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)

	hashed, err := NewBcryptHasher(10).Hash("pw1234")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}
