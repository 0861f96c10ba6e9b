/*
Package errs provides the error taxonomy of the token issuer and the application-level
error codes used in HTTP responses.

These error codes identify specific request or system failures both internally within
the server and in communication with clients.
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

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Token Scope Errors
const (
	// ErrScopeInputInvalid indicates a malformed room name or an unrecognised scope shape.
	ErrScopeInputInvalid = 2101
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrSigningFailed indicates that the token could not be serialized or signed.
	ErrSigningFailed = 5001

	// ErrNotConfigured indicates that the issuer is missing its application identity or secret.
	ErrNotConfigured = 5002
)
