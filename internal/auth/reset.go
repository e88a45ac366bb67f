package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL is how long a password-reset token stays valid.
const ResetTokenTTL = 10 * time.Minute

const resetTokenBytes = 20

// NewResetToken generates the plaintext reset token sent to the user. Only
// its hash is ever stored.
func NewResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashResetToken is the at-rest form of a reset token.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
