package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	t1, err := NewResetToken()
	require.NoError(t, err)
	t2, err := NewResetToken()
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	assert.Len(t, t1, resetTokenBytes*2)
	_, err = hex.DecodeString(t1)
	assert.NoError(t, err)
}

func TestHashResetTokenIsDeterministicAndOneWay(t *testing.T) {
	plain, err := NewResetToken()
	require.NoError(t, err)

	h := HashResetToken(plain)
	assert.Equal(t, h, HashResetToken(plain))
	assert.NotEqual(t, plain, h)
	assert.Len(t, h, 64) // sha256 hex
}
