package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAvatarDeterministic(t *testing.T) {
	first := NewAvatar("alice")
	second := NewAvatar("alice")

	assert.Equal(t, first, second)
}

func TestNewAvatarInitialUppercased(t *testing.T) {
	assert.Equal(t, "A", NewAvatar("alice").Initial)
	assert.Equal(t, "B", NewAvatar("Bob").Initial)
}

func TestNewAvatarColorFromPalette(t *testing.T) {
	for _, name := range []string{"alice", "bob", "carol", "dave", "zoe"} {
		avatar := NewAvatar(name)
		assert.Contains(t, avatarColors, avatar.Color, "avatar color for %q", name)
	}
}

func TestNewAvatarCaseSensitiveInput(t *testing.T) {
	// The descriptor is derived from the username as typed; the store passes
	// the original casing, so "Alice" and "alice" may legitimately differ in color.
	avatar := NewAvatar("Alice")
	assert.Equal(t, "A", avatar.Initial)
	assert.Contains(t, avatarColors, avatar.Color)
}
