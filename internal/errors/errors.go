package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTokenMalformed is returned when a token is structurally invalid.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrInvalidSignature is returned when a token signature does not verify.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrUnknownSubject is returned when a token subject resolves to no user.
	ErrUnknownSubject = errors.New("token subject not found")
	// ErrAuthenticationRequired is returned when a protected operation is
	// attempted without a resolved identity.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrFoodItemNotFound is returned when a food item is not found.
	ErrFoodItemNotFound = errors.New("food item not found")
	// ErrOrderNotFound is returned when an order is not found or outside the
	// caller's visibility scope.
	ErrOrderNotFound = errors.New("order not found")
)

// PermissionDeniedError is an authorization failure for a resolved identity.
// It is distinct from ErrAuthenticationRequired: the caller is known but not
// allowed.
type PermissionDeniedError struct {
	Reason string
}

func (e *PermissionDeniedError) Error() string {
	return e.Reason
}

// PermissionDenied builds a PermissionDeniedError with a human-readable reason.
func PermissionDenied(format string, args ...interface{}) *PermissionDeniedError {
	return &PermissionDeniedError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Validation builds a ValidationError for a single field.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
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
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Token failures collapse
// to 401 with the underlying cause in the message; this is a trusted-boundary
// diagnostic, not a secret.
func MapErrorToHTTP(err error) *HTTPError {
	var permErr *PermissionDeniedError
	if errors.As(err, &permErr) {
		return NewHTTPError(http.StatusForbidden, permErr.Reason, "PERMISSION_DENIED")
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_FAILED")
		httpErr.Fields = valErr.Fields
		return httpErr
	}

	switch {
	case errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrUnknownSubject):
		return NewHTTPError(http.StatusUnauthorized, "invalid or expired token: "+err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrAuthenticationRequired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "AUTHENTICATION_REQUIRED")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrFoodItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FOOD_ITEM_NOT_FOUND")
	case errors.Is(err, ErrOrderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
