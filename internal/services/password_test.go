package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_Deterministic(t *testing.T) {
	salt := NewSalt()
	assert.Equal(t, HashPassword("p1", salt), HashPassword("p1", salt))
	assert.NotEqual(t, HashPassword("p1", salt), HashPassword("p1", NewSalt()))
	assert.NotContains(t, HashPassword("secret1", salt), "secret1")
}

func TestAuthenticate(t *testing.T) {
	for _, p := range []string{"p1", "correct horse battery 9", "ünïcode7"} {
		salt := NewSalt()
		digest := HashPassword(p, salt)

		assert.True(t, Authenticate(p, salt, digest), p)
		assert.False(t, Authenticate(p+"x", salt, digest), p)
		assert.False(t, Authenticate(p, NewSalt(), digest), p)
	}
}

func TestAuthenticate_Empty(t *testing.T) {
	salt := NewSalt()
	assert.False(t, Authenticate("", salt, HashPassword("p1", salt)))
	assert.False(t, Authenticate("p1", salt, ""))
	assert.Empty(t, HashPassword("", salt))
}
