/*
Package user contains core data structures related to user identity.

It defines the basic representation of a registered user (the User struct)
and the deterministic avatar descriptor derived from the username.
*/
package user

// User represents a registered account.
// The ID is the lowercased username and serves as the unique key; the record
// is immutable once created.
type User struct {

	// ID is the unique identifier for the user (lowercased username).
	ID string `json:"id"`

	// Name is the display name, preserving the casing used at registration.
	Name string `json:"name"`

	// PasswordHash is the bcrypt hash of the user's password. Never serialized
	// in API responses.
	PasswordHash string `json:"-"`

	// Avatar is the descriptor derived from the username at registration time.
	Avatar Avatar `json:"avatar"`
}
