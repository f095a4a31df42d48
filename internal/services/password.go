package services

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing them invalidates every stored digest.
const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
)

// NewSalt returns a fresh random salt for a user credential.
func NewSalt() string {
	return uuid.NewString()
}

// HashPassword derives the hex-encoded digest of plain under salt.
func HashPassword(plain, salt string) string {
	if plain == "" {
		return ""
	}
	key := argon2.IDKey([]byte(plain), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

// Authenticate reports whether plain matches the stored salt and digest.
func Authenticate(plain, salt, digest string) bool {
	if plain == "" || digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashPassword(plain, salt)), []byte(digest)) == 1
}
