package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue("user-123")
	require.NoError(t, err)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyFailsUniformly(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	otherSecret := NewTokenManager("other-secret", time.Hour)
	foreign, err := otherSecret.Issue("user-123")
	require.NoError(t, err)

	expiredIssuer := NewTokenManager("test-secret", -time.Minute)
	expired, err := expiredIssuer.Issue("user-123")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-token"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Verify(tt.token)
			// every failure mode collapses to the same error
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
