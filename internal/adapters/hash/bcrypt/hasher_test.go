package bcrypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewHasher(4) // low cost to keep the test fast

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, hasher.Compare(hash, "secret1"))
	assert.False(t, hasher.Compare(hash, "wrong"))
}

func TestCompareWithInvalidHash(t *testing.T) {
	hasher := NewHasher(4)
	assert.False(t, hasher.Compare("not-a-bcrypt-hash", "secret1"))
}
