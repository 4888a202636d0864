package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when no valid session is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a session is present but the role or ownership is insufficient.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned on a failed login. It deliberately does not
	// distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidSecurityKey is returned when a staff login fails the security key check.
	ErrInvalidSecurityKey = errors.New("invalid security key")
	// ErrAccountBlocked is returned when a disabled account attempts to log in.
	ErrAccountBlocked = errors.New("account is blocked, please contact support")
	// ErrInvalidOrExpiredOTP merges the wrong-code and expired cases to avoid enumeration.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	// ErrEmailExists is returned when a signup targets an already registered email.
	ErrEmailExists = errors.New("email already registered")
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("invalid input")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Validation errors carry
// their specific message so the caller can see e.g. which flag would be valid.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidSecurityKey):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_SECURITY_KEY")
	case errors.Is(err, ErrAccountBlocked):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "ACCOUNT_BLOCKED")
	case errors.Is(err, ErrInvalidOrExpiredOTP):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_OR_EXPIRED_OTP")
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
