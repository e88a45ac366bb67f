package auth

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt work factor used for every stored password.
const HashCost = 10

// HashPassword returns the salted bcrypt hash of plain. Callers must only
// pass freshly supplied plaintext; hashes are never re-hashed because
// nothing outside SetPassword-style flows ever writes the password field.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored hash, using
// bcrypt's own constant-time comparison.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
