package authsdk

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/logind/pkg/httpx"
)

// Messages carried in the "error" field of failed responses.
const (
	MessageInvalidUser    = "Invalid user"
	MessageInvalidBody    = "invalid request body"
	MessageInternalServer = "internal server error"
)

// APIError is a non-2xx response. It is used both by the server (to write
// the response) and by the SDK client (to report it).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Message is the "error" field of the body
	Message string `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Is matches any APIError with the same status and message, so callers can
// use errors.Is(err, ErrInvalidUser) on decoded responses.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Message == t.Message
}

// WriteError writes this error as {"error": Message}.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Message)
}

var (
	// ErrInvalidUser is returned for bad credentials on login and for an
	// unknown, expired or revoked refresh token.
	ErrInvalidUser = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    MessageInvalidUser,
	}

	// ErrInvalidBody is returned when the JSON body is malformed or a
	// required field is missing.
	ErrInvalidBody = &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    MessageInvalidBody,
	}

	// ErrServerError is returned when the service hit an unexpected fault.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    MessageInternalServer,
	}
)
