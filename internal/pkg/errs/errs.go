package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"roomtoken/internal/pkg/logx"
)

// Error kinds. Callers wrap them with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrConfiguration marks a missing or invalid startup setting. Issuance must not proceed.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidScopeInput marks malformed or unrecognised request parameters.
	ErrInvalidScopeInput = errors.New("invalid scope input")

	// ErrSigning marks a claims serialization or cryptographic signing failure.
	ErrSigning = errors.New("signing error")
)

// CustomError is the custom error structure used in HTTP responses.
// It wraps the Go error interface, adding a business code and HTTP status code.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-friendly error description.
	Message string

	// Status is the standard HTTP status code corresponding to this error.
	Status int
}

// Error implements the standard Go error interface. It returns a formatted
// error string containing the error code, HTTP status, and message.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError constructs and returns a new *CustomError instance based on a predefined error code.
// The optional details parameter allows for formatting arguments (printf-style) to be supplied
// for the error message. If an unknown code is provided, it defaults to returning ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &unknownErr
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusBadRequest
	}

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
				"code", code,
			)
		}
	}

	return &customErr
}

// FromError classifies err into the response error it should produce.
// The underlying cause never reaches the message, so secret material and internal
// structure stay out of responses.
func FromError(err error) *CustomError {
	var customErr *CustomError

	switch {
	case err == nil:
		return nil
	case errors.As(err, &customErr):
		return customErr
	case errors.Is(err, ErrInvalidScopeInput):
		return NewError(ErrScopeInputInvalid)
	case errors.Is(err, ErrSigning):
		return NewError(ErrSigningFailed)
	case errors.Is(err, ErrConfiguration):
		return NewError(ErrNotConfigured)
	default:
		return NewError(ErrUnknown)
	}
}
