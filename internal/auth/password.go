package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16
)

// HashPassword derives a scrypt hash and encodes it as "scrypt$<salt>$<hash>"
// with both parts hex-encoded.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	saltHex := hex.EncodeToString(salt)
	derived, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return fmt.Sprintf("scrypt$%s$%s", saltHex, hex.EncodeToString(derived)), nil
}

// VerifyPassword checks a password against a stored "scrypt$<salt>$<hash>"
// value in constant time. Any malformed stored value fails verification.
func VerifyPassword(password, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[0] != "scrypt" || parts[1] == "" || parts[2] == "" {
		return false
	}

	expected, err := hex.DecodeString(parts[2])
	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(password), []byte(parts[1]), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	if len(expected) != len(derived) {
		return false
	}

	return subtle.ConstantTimeCompare(expected, derived) == 1
}
