package user

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// avatarColors is the fixed palette avatars are drawn from. The palette and
// selection rule are stable so existing clients keep rendering the same color
// for a given username.
var avatarColors = []string{"#007bff", "#28a745", "#dc3545", "#ffc107", "#17a2b8", "#6f42c1"}

// Avatar is a deterministic visual descriptor for a user, derived from the
// username at registration time.
type Avatar struct {
	// Color is a hex color picked from a fixed palette.
	Color string `json:"color"`

	// Initial is the uppercased first character of the username.
	Initial string `json:"initial"`
}

// NewAvatar derives the avatar for the given username.
// The palette index is the first byte of the hex-encoded md5 digest of the
// username, modulo the palette size. md5 is used only as a stable spreading
// function, not for security.
func NewAvatar(username string) Avatar {
	sum := md5.Sum([]byte(username))
	digest := hex.EncodeToString(sum[:])

	avatar := Avatar{
		Color: avatarColors[int(digest[0])%len(avatarColors)],
	}

	for _, r := range username {
		avatar.Initial = strings.ToUpper(string(r))
		break
	}

	return avatar
}
