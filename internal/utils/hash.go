package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// PasswordResetTokenTTL is the absolute validity window of a reset link.
const PasswordResetTokenTTL = 10 * time.Minute

// GenerateResetToken returns the plaintext reset secret handed to the user
// once, the SHA-256 digest that gets persisted, and the expiry deadline.
func GenerateResetToken() (plain string, hashed string, expiresAt time.Time, err error) {
	buffer := make([]byte, 32)
	if _, err = rand.Read(buffer); err != nil {
		return "", "", time.Time{}, err
	}
	plain = hex.EncodeToString(buffer)
	return plain, HashResetToken(plain), time.Now().Add(PasswordResetTokenTTL), nil
}

func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
