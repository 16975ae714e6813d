package errors

import (
	"errors"
	"net/http"
)

// Booking business rules the API reports verbatim. Clients string-match these
// to localize them, so the wording must stay stable.
var (
	ErrCheckInPast        = errors.New("Check-in date cannot be in the past")
	ErrCheckOutNotAfter   = errors.New("Check-out date must be after check-in date")
	ErrRoomNotAvailable   = errors.New("Room is not available for the selected dates")
	ErrGuestsOverCapacity = errors.New("Number of guests exceeds room capacity")
	ErrRoomNotFound       = errors.New("Room not found")
	ErrBookingNotFound    = errors.New("Booking not found")
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helper for common errors
var (
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
)
