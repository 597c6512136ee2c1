/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrNotFound indicates that no route matched the request method and path.
	ErrNotFound = 1005
)

// 3xxx: User and Credential Errors
const (
	// ErrUserAlreadyExists indicates that the registered username is already taken.
	ErrUserAlreadyExists = 3001

	// ErrInvalidCredentials indicates a login failure. The same code covers an
	// unknown username and a wrong password so that login cannot be used to
	// enumerate accounts.
	ErrInvalidCredentials = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStaticPageUnavailable indicates that the static chat page could not be read.
	ErrStaticPageUnavailable = 5001
)
