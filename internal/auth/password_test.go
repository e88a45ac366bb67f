package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cretpass", hash)
	assert.True(t, CheckPassword("s3cretpass", hash))
	assert.False(t, CheckPassword("wrongpass", hash))
}

func TestHashPasswordIsSalted(t *testing.T) {
	h1, err := HashPassword("samepassword")
	require.NoError(t, err)
	h2, err := HashPassword("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("samepassword", h1))
	assert.True(t, CheckPassword("samepassword", h2))
}

func TestHashPasswordUsesConfiguredCost(t *testing.T) {
	hash, err := HashPassword("whatever")
	require.NoError(t, err)
	// bcrypt hashes embed the cost: $2a$10$...
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), hash)
}
